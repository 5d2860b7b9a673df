package sqlinline

const QInsertPreset = `--sql eb0b3d96-55f7-4aaa-a26a-740ea6d49640
insert into presets(id, name, prompt, created_at, updated_at)
values ($1::uuid, $2::text, coalesce($3::jsonb, '{}'::jsonb), now(), now())
returning created_at, updated_at;
`

const QSelectPresetByID = `--sql 180a707d-6928-4149-a754-cfe74ca492f8
select id::text, name, prompt, created_at, updated_at
from presets
where id = $1::uuid;
`

const QListPresets = `--sql e349c574-875e-45a9-b37a-07e96d37adc1
select id::text, name, prompt, created_at, updated_at
from presets
order by name asc;
`

const QUpdatePreset = `--sql fb25d6d8-e607-4d94-af89-71677cd72d83
update presets
set name = $2::text,
    prompt = coalesce($3::jsonb, '{}'::jsonb),
    updated_at = now()
where id = $1::uuid
returning created_at, updated_at;
`

const QDeletePreset = `--sql d6048b66-b845-402a-a432-c1dcbd237272
delete from presets
where id = $1::uuid;
`

const QUpsertPresetByName = `--sql e6673e01-96dc-4b61-b011-c51f8d20ac4f
insert into presets(id, name, prompt, created_at, updated_at)
values ($1::uuid, $2::text, coalesce($3::jsonb, '{}'::jsonb), now(), now())
on conflict (name) do update set
    prompt = excluded.prompt,
    updated_at = now()
returning id::text, created_at, updated_at;
`
