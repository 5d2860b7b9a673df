package sqlinline

// Compose provider API keys, one row per provider.

const QSelectIntegrationToken = `--sql 8a8e0d52-7f5d-4f21-8b7d-f7d4b821eed7
select token
from integration_tokens
where provider = $1::text and token <> '';
`

const QUpsertIntegrationToken = `--sql 6d4f5660-0f7c-4f73-a1f3-9ab6d5e6c7a3
insert into integration_tokens (provider, token, properties)
values ($1::text, $2::text, coalesce($3::jsonb, '{}'::jsonb))
on conflict (provider) do update
set token = excluded.token,
    properties = integration_tokens.properties || excluded.properties,
    updated_at = now();
`

const QDeleteIntegrationToken = `--sql 3c1f9a7e-5b2d-4e86-9f0a-7d4c2b8e1a65
delete from integration_tokens
where provider = $1::text;
`
