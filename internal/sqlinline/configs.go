package sqlinline

const QInsertConfigIfAbsent = `--sql 4f6d9c02-8a31-4e5b-b7d4-0c91a2e6f3b8
insert into user_configs (user_id, plan, style, compliment_count, assigned_at, created_at, updated_at)
values ($1::text, 'free', $2::text, 0, now(), now(), now())
on conflict (user_id) do nothing;
`

const QSelectConfig = `--sql 2b7e1f90-3c44-4d28-a1b5-6e8f09d2c471
select user_id, plan, style, compliment_count, assigned_at
from user_configs
where user_id = $1::text
limit 1;
`

const QMergeConfig = `--sql 9a0c3e5d-7f12-4b86-8d2a-4c6b1e9f0a35
update user_configs set
    plan = coalesce($2::text, plan),
    style = coalesce($3::text, style),
    compliment_count = coalesce($4::int, compliment_count),
    updated_at = now()
where user_id = $1::text
returning user_id, plan, style, compliment_count, assigned_at;
`
