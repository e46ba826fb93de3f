package domain

import (
	"math/rand/v2"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PersonaKey identifies a persona in the catalog.
type PersonaKey string

const (
	PersonaWitty       PersonaKey = "witty"
	PersonaWholesome   PersonaKey = "wholesome"
	PersonaShakespeare PersonaKey = "shakespeare"
	PersonaGenZ        PersonaKey = "gen_z"
	PersonaBusiness    PersonaKey = "business"
)

// Persona is a named system-prompt variant shaping the tone of generated text.
type Persona struct {
	Key          PersonaKey
	SystemPrompt string
	Premium      bool
}

var catalog = map[PersonaKey]Persona{
	PersonaWitty: {
		Key:          PersonaWitty,
		SystemPrompt: "You are a witty, slightly sarcastic, but ultimately very supportive friend. Generate a compliment that is clever and funny, based on the user's input.",
	},
	PersonaWholesome: {
		Key:          PersonaWholesome,
		SystemPrompt: "You are a warm, empathetic, and wholesome friend. Generate a sincere, kind, and uplifting compliment based on the user's input. Be very encouraging.",
	},
	PersonaShakespeare: {
		Key:          PersonaShakespeare,
		SystemPrompt: "You are Shakespeare. Generate a compliment in elegant, flowery, iambic-pentameter-style prose based on the user's input. Use words like 'thou', 'hath', and 'verily'.",
		Premium:      true,
	},
	PersonaGenZ: {
		Key:          PersonaGenZ,
		SystemPrompt: "You are a Gen Z TikToker. Generate a compliment that is 'for the moment' based on the user's input. Use modern slang. No cap, make it hit different. Bet.",
		Premium:      true,
	},
	PersonaBusiness: {
		Key:          PersonaBusiness,
		SystemPrompt: "You are a business professional in a suit. Generate a compliment that sounds like corporate buzzwords. Synergize the user's input into a value-add statement.",
		Premium:      true,
	},
}

// personaOrder keeps listings stable: free personas first.
var personaOrder = []PersonaKey{
	PersonaWitty,
	PersonaWholesome,
	PersonaShakespeare,
	PersonaGenZ,
	PersonaBusiness,
}

// LookupPersona resolves a persona by key. Unknown keys fail closed.
func LookupPersona(key PersonaKey) (Persona, bool) {
	p, ok := catalog[key]
	return p, ok
}

// PersonaKeys returns all catalog keys, free personas first.
func PersonaKeys() []PersonaKey {
	keys := make([]PersonaKey, len(personaOrder))
	copy(keys, personaOrder)
	return keys
}

// FreePersonaKeys returns the keys available on the free plan.
func FreePersonaKeys() []PersonaKey {
	var keys []PersonaKey
	for _, k := range personaOrder {
		if !catalog[k].Premium {
			keys = append(keys, k)
		}
	}
	return keys
}

// IsPremiumPersona reports whether the key requires the pro plan. Unknown
// keys are treated as premium so they never slip through a free-plan check.
func IsPremiumPersona(key PersonaKey) bool {
	p, ok := catalog[key]
	if !ok {
		return true
	}
	return p.Premium
}

// RandomFreePersona picks one of the free personas uniformly. New users get
// their initial style from here. A nil rand falls back to the global source.
func RandomFreePersona(r *rand.Rand) PersonaKey {
	keys := FreePersonaKeys()
	if r == nil {
		return keys[rand.IntN(len(keys))]
	}
	return keys[r.IntN(len(keys))]
}

// DisplayName renders the key as a human-readable label, e.g. "Gen Z".
func (p Persona) DisplayName() string {
	c := cases.Title(language.English)
	return c.String(strings.ReplaceAll(string(p.Key), "_", " "))
}
