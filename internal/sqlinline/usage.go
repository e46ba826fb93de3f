package sqlinline

const QInsertUsageEvent = `--sql e40f651c-a8b3-44c7-a911-bb8a0ed5f6ef
insert into usage_events (id, user_id, event_type, success, latency_ms, created_at, properties)
values (gen_random_uuid(), $1::text, $2::text, $3::boolean, $4::int, now(), coalesce($5::jsonb, '{}'::jsonb));
`
