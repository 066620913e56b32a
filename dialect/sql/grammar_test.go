package sql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querykit/querykit"
	"github.com/querykit/querykit/dialect"
)

func TestGenericGrammar(t *testing.T) {
	t.Run("TablePrefix", func(t *testing.T) {
		b := Dialect(dialect.Generic)
		b.Grammar().SetTablePrefix("wp_")
		sql, _, err := b.From("users").WhereEq("users.id", 1).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, `select * from "wp_users" where "wp_users"."id" = ?`, sql)
	})

	t.Run("CompileExists", func(t *testing.T) {
		b := Dialect(dialect.Generic).From("users").WhereEq("id", 1)
		sql, err := b.Grammar().CompileExists(b)
		require.NoError(t, err)
		assert.Equal(t, `select exists(select * from "users" where "id" = ?) as "exists"`, sql)
	})

	t.Run("CompileInsertMultiRow", func(t *testing.T) {
		b := Dialect(dialect.Generic).From("points")
		sql, args, err := b.Grammar().CompileInsert(b, []Row{
			{"x": 1, "y": 2},
			{"x": 3, "y": 4},
		})
		require.NoError(t, err)
		assert.Equal(t, `insert into "points" ("x", "y") values (?, ?), (?, ?)`, sql)
		assert.Equal(t, []any{1, 2, 3, 4}, args)
	})

	t.Run("CompileInsertExprInline", func(t *testing.T) {
		b := Dialect(dialect.Generic).From("events")
		sql, args, err := b.Grammar().CompileInsert(b, []Row{
			{"name": "boot", "at": Raw("now()")},
		})
		require.NoError(t, err)
		assert.Equal(t, `insert into "events" ("at", "name") values (now(), ?)`, sql)
		assert.Equal(t, []any{"boot"}, args)
	})

	t.Run("CompileInsertMismatchedRows", func(t *testing.T) {
		b := Dialect(dialect.Generic).From("points")
		_, _, err := b.Grammar().CompileInsert(b, []Row{
			{"x": 1, "y": 2},
			{"x": 3},
		})
		require.Error(t, err)
		assert.True(t, querykit.IsInvalidArgument(err))
	})

	t.Run("CompileInsertDefaultValues", func(t *testing.T) {
		b := Dialect(dialect.Generic).From("jobs")
		sql, args, err := b.Grammar().CompileInsert(b, nil)
		require.NoError(t, err)
		assert.Equal(t, `insert into "jobs" default values`, sql)
		assert.Empty(t, args)
	})

	t.Run("CompileUpdate", func(t *testing.T) {
		b := Dialect(dialect.Generic).From("users").WhereEq("id", 7)
		g := b.Grammar()
		sql, err := g.CompileUpdate(b, Row{"name": "x", "age": 30})
		require.NoError(t, err)
		assert.Equal(t, `update "users" set "age" = ?, "name" = ? where "id" = ?`, sql)
		assert.Equal(t, []any{30, "x", 7}, g.PrepareBindingsForUpdate(b, Row{"name": "x", "age": 30}))
	})

	t.Run("CompileUpdateWithoutFromFails", func(t *testing.T) {
		b := Dialect(dialect.Generic)
		_, err := b.Grammar().CompileUpdate(b, Row{"name": "x"})
		require.Error(t, err)
		assert.True(t, querykit.IsMissingClause(err))
	})

	t.Run("CompileDelete", func(t *testing.T) {
		b := Dialect(dialect.Generic).From("users").WhereEq("id", 7)
		g := b.Grammar()
		sql, err := g.CompileDelete(b)
		require.NoError(t, err)
		assert.Equal(t, `delete from "users" where "id" = ?`, sql)
		assert.Equal(t, []any{7}, g.PrepareBindingsForDelete(b))
	})

	t.Run("CompileTruncate", func(t *testing.T) {
		b := Dialect(dialect.Generic).From("users")
		stmts, err := b.Grammar().CompileTruncate(b)
		require.NoError(t, err)
		require.Len(t, stmts, 1)
		assert.Equal(t, `truncate table "users"`, stmts[0].SQL)
	})

	t.Run("UnsupportedFeatures", func(t *testing.T) {
		b := Dialect(dialect.Generic).From("users")
		g := b.Grammar()

		_, _, err := g.CompileUpsert(b, []Row{{"a": 1}}, []string{"a"}, []string{"a"})
		assert.True(t, querykit.IsUnsupportedFeature(err))

		_, _, err = g.CompileInsertOrIgnore(b, []Row{{"a": 1}})
		assert.True(t, querykit.IsUnsupportedFeature(err))

		_, _, err = Dialect(dialect.Generic).From("users").WhereEq("prefs->theme", "dark").ToSQL()
		assert.True(t, querykit.IsUnsupportedFeature(err))

		_, _, err = Dialect(dialect.Generic).From("posts").WhereFulltext([]string{"title"}, "x").ToSQL()
		assert.True(t, querykit.IsUnsupportedFeature(err))
	})
}

func TestMySQLGrammar(t *testing.T) {
	t.Run("BacktickQuoting", func(t *testing.T) {
		sql, _, err := Dialect(dialect.MySQL).From("users").Select("users.name").ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "select `users`.`name` from `users`", sql)
	})

	t.Run("JSONSelector", func(t *testing.T) {
		sql, args, err := Dialect(dialect.MySQL).From("users").
			WhereEq("prefs->theme", "dark").ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "select * from `users` where json_unquote(json_extract(`prefs`, '$.\"theme\"')) = ?", sql)
		assert.Equal(t, []any{"dark"}, args)
	})

	t.Run("JSONBoolean", func(t *testing.T) {
		sql, args, err := Dialect(dialect.MySQL).From("users").
			WhereEq("prefs->active", true).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "select * from `users` where json_extract(`prefs`, '$.\"active\"') = true", sql)
		assert.Empty(t, args)
	})

	t.Run("Fulltext", func(t *testing.T) {
		sql, args, err := Dialect(dialect.MySQL).From("posts").
			WhereFulltext([]string{"title", "body"}, "hello").ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "select * from `posts` where match (`title`, `body`) against (? in natural language mode)", sql)
		assert.Equal(t, []any{"hello"}, args)

		sql, _, err = Dialect(dialect.MySQL).From("posts").
			WhereFulltextWith([]string{"title"}, "+go -java", FulltextOptions{Mode: "boolean"}).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "select * from `posts` where match (`title`) against (? in boolean mode)", sql)

		sql, _, err = Dialect(dialect.MySQL).From("posts").
			WhereFulltextWith([]string{"title"}, "hello", FulltextOptions{Expanded: true}).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "select * from `posts` where match (`title`) against (? in natural language mode with query expansion)", sql)
	})

	t.Run("Locks", func(t *testing.T) {
		sql, _, err := Dialect(dialect.MySQL).From("users").SharedLock().ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "select * from `users` lock in share mode", sql)

		sql, _, err = Dialect(dialect.MySQL).From("users").LockForUpdate().ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "select * from `users` for update", sql)
	})

	t.Run("InsertOrIgnore", func(t *testing.T) {
		b := Dialect(dialect.MySQL).From("users")
		sql, args, err := b.Grammar().CompileInsertOrIgnore(b, []Row{{"email": "a@x"}})
		require.NoError(t, err)
		assert.Equal(t, "insert ignore into `users` (`email`) values (?)", sql)
		assert.Equal(t, []any{"a@x"}, args)
	})

	t.Run("Upsert", func(t *testing.T) {
		b := Dialect(dialect.MySQL).From("users")
		sql, args, err := b.Grammar().CompileUpsert(b,
			[]Row{{"email": "a@x", "name": "A"}}, []string{"email"}, []string{"name"})
		require.NoError(t, err)
		assert.Equal(t,
			"insert into `users` (`email`, `name`) values (?, ?) on duplicate key update `name` = values(`name`)",
			sql,
		)
		assert.Equal(t, []any{"a@x", "A"}, args)
	})

	t.Run("UpdateWithOrderAndLimit", func(t *testing.T) {
		b := Dialect(dialect.MySQL).From("users").WhereEq("active", true).OrderBy("id").Limit(5)
		g := b.Grammar()
		sql, err := g.CompileUpdate(b, Row{"name": "x"})
		require.NoError(t, err)
		assert.Equal(t, "update `users` set `name` = ? where `active` = ? order by `id` asc limit 5", sql)
		assert.Equal(t, []any{"x", true}, g.PrepareBindingsForUpdate(b, Row{"name": "x"}))
	})

	t.Run("DeleteWithJoins", func(t *testing.T) {
		b := Dialect(dialect.MySQL).From("users").
			Join("contacts", "users.id", "=", "contacts.user_id").
			WhereEq("users.active", true)
		sql, err := b.Grammar().CompileDelete(b)
		require.NoError(t, err)
		assert.Equal(t,
			"delete `users` from `users` inner join `contacts` on `users`.`id` = `contacts`.`user_id` where `users`.`active` = ?",
			sql,
		)
	})

	t.Run("DeleteWithLimit", func(t *testing.T) {
		b := Dialect(dialect.MySQL).From("logs").OrderBy("id").Limit(100)
		sql, err := b.Grammar().CompileDelete(b)
		require.NoError(t, err)
		assert.Equal(t, "delete from `logs` order by `id` asc limit 100", sql)
	})

	t.Run("RandomWithSeed", func(t *testing.T) {
		sql, _, err := Dialect(dialect.MySQL).From("users").InRandomOrder("123").ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "select * from `users` order by rand(123)", sql)
	})

	t.Run("SoundsLikeOperator", func(t *testing.T) {
		sql, args, err := Dialect(dialect.MySQL).From("users").
			Where("name", "sounds like", "John").ToSQL()
		require.NoError(t, err)
		assert.Equal(t, "select * from `users` where `name` sounds like ?", sql)
		assert.Equal(t, []any{"John"}, args)
	})
}

func TestPostgresGrammar(t *testing.T) {
	t.Run("NumberedPlaceholders", func(t *testing.T) {
		sql, args, err := Dialect(dialect.Postgres).From("users").
			WhereEq("name", "x").WhereEq("age", 30).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, `select * from "users" where "name" = $1 and "age" = $2`, sql)
		assert.Equal(t, []any{"x", 30}, args)
	})

	t.Run("PlaceholdersSkipQuotedRegions", func(t *testing.T) {
		sql, _, err := Dialect(dialect.Postgres).From("notes").
			WhereRaw("body = 'a?b'").
			WhereEq("id", 1).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, `select * from "notes" where body = 'a?b' and "id" = $1`, sql)
	})

	t.Run("DistinctOn", func(t *testing.T) {
		sql, _, err := Dialect(dialect.Postgres).From("events").
			Distinct("region").OrderBy("region").OrderByDesc("created_at").ToSQL()
		require.NoError(t, err)
		assert.Equal(t,
			`select distinct on ("region") * from "events" order by "region" asc, "created_at" desc`,
			sql,
		)
	})

	t.Run("BitwiseCastToBool", func(t *testing.T) {
		sql, args, err := Dialect(dialect.Postgres).From("users").
			Where("flags", "&", 2).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, `select * from "users" where ("flags" & $1)::bool`, sql)
		assert.Equal(t, []any{2}, args)
	})

	t.Run("ContainmentOperator", func(t *testing.T) {
		sql, _, err := Dialect(dialect.Postgres).From("posts").
			Where("tags", "@>", `{"go"}`).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, `select * from "posts" where "tags" @> $1`, sql)
	})

	t.Run("DateParts", func(t *testing.T) {
		ts := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
		sql, args, err := Dialect(dialect.Postgres).From("posts").
			WhereDate("created_at", "=", ts).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, `select * from "posts" where "created_at"::date = $1`, sql)
		assert.Equal(t, []any{"2024-03-05"}, args)

		sql, args, err = Dialect(dialect.Postgres).From("posts").
			WhereMonth("created_at", "=", 3).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, `select * from "posts" where extract(month from "created_at") = $1`, sql)
		assert.Equal(t, []any{"03"}, args)
	})

	t.Run("JSONSelector", func(t *testing.T) {
		sql, args, err := Dialect(dialect.Postgres).From("users").
			WhereEq("prefs->theme->color", "dark").ToSQL()
		require.NoError(t, err)
		assert.Equal(t, `select * from "users" where "prefs"->'theme'->>'color' = $1`, sql)
		assert.Equal(t, []any{"dark"}, args)
	})

	t.Run("JSONBoolean", func(t *testing.T) {
		sql, args, err := Dialect(dialect.Postgres).From("users").
			WhereEq("prefs->active", true).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, `select * from "users" where ("prefs"->>'active')::boolean = true`, sql)
		assert.Empty(t, args)
	})

	t.Run("Fulltext", func(t *testing.T) {
		sql, args, err := Dialect(dialect.Postgres).From("posts").
			WhereFulltext([]string{"title", "body"}, "hello").ToSQL()
		require.NoError(t, err)
		assert.Equal(t,
			`select * from "posts" where to_tsvector('english', "title" || ' ' || "body") @@ plainto_tsquery('english', $1)`,
			sql,
		)
		assert.Equal(t, []any{"hello"}, args)
	})

	t.Run("InsertOrIgnore", func(t *testing.T) {
		b := Dialect(dialect.Postgres).From("users")
		sql, _, err := b.Grammar().CompileInsertOrIgnore(b, []Row{{"email": "a@x"}})
		require.NoError(t, err)
		assert.Equal(t, `insert into "users" ("email") values (?) on conflict do nothing`, sql)
	})

	t.Run("InsertGetIDReturning", func(t *testing.T) {
		b := Dialect(dialect.Postgres).From("users")
		sql, args, err := b.Grammar().CompileInsertGetID(b, Row{"name": "x"}, "id")
		require.NoError(t, err)
		assert.Equal(t, `insert into "users" ("name") values (?) returning "id"`, sql)
		assert.Equal(t, []any{"x"}, args)
	})

	t.Run("Upsert", func(t *testing.T) {
		b := Dialect(dialect.Postgres).From("users")
		sql, args, err := b.Grammar().CompileUpsert(b,
			[]Row{{"email": "a@x", "name": "A"}}, []string{"email"}, []string{"name"})
		require.NoError(t, err)
		assert.Equal(t,
			`insert into "users" ("email", "name") values (?, ?) on conflict ("email") do update set "name" = "excluded"."name"`,
			sql,
		)
		assert.Equal(t, []any{"a@x", "A"}, args)
	})

	t.Run("UpdateWithJoins", func(t *testing.T) {
		b := Dialect(dialect.Postgres).From("users").
			Join("contacts", "users.id", "=", "contacts.user_id").
			WhereEq("users.active", true)
		g := b.Grammar()
		sql, err := g.CompileUpdate(b, Row{"name": "x"})
		require.NoError(t, err)
		assert.Equal(t,
			`update "users" set "name" = ? where "ctid" in (select "users"."ctid" from "users" inner join "contacts" on "users"."id" = "contacts"."user_id" where "users"."active" = ?)`,
			sql,
		)
		assert.Equal(t, []any{"x", true}, g.PrepareBindingsForUpdate(b, Row{"name": "x"}))
	})

	t.Run("DeleteWithJoins", func(t *testing.T) {
		b := Dialect(dialect.Postgres).From("users").
			Join("contacts", "users.id", "=", "contacts.user_id").
			WhereEq("users.active", true)
		sql, err := b.Grammar().CompileDelete(b)
		require.NoError(t, err)
		assert.Equal(t,
			`delete from "users" where "ctid" in (select "users"."ctid" from "users" inner join "contacts" on "users"."id" = "contacts"."user_id" where "users"."active" = ?)`,
			sql,
		)
	})

	t.Run("Truncate", func(t *testing.T) {
		b := Dialect(dialect.Postgres).From("users")
		stmts, err := b.Grammar().CompileTruncate(b)
		require.NoError(t, err)
		require.Len(t, stmts, 1)
		assert.Equal(t, `truncate "users" restart identity cascade`, stmts[0].SQL)
	})
}

func TestSQLiteGrammar(t *testing.T) {
	t.Run("BareOffsetNeedsLimit", func(t *testing.T) {
		sql, _, err := Dialect(dialect.SQLite).From("users").Offset(10).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, `select * from "users" limit -1 offset 10`, sql)
	})

	t.Run("UnionMembersUnwrapped", func(t *testing.T) {
		sql, _, err := Dialect(dialect.SQLite).From("a").
			Union(Func(func(q *Builder) { q.From("b") })).ToSQL()
		require.NoError(t, err)
		assert.Equal(t,
			`select * from (select * from "a") union select * from (select * from "b")`,
			sql,
		)
	})

	t.Run("DateParts", func(t *testing.T) {
		ts := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
		sql, args, err := Dialect(dialect.SQLite).From("posts").
			WhereDate("created_at", "=", ts).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, `select * from "posts" where strftime('%Y-%m-%d', "created_at") = cast(? as text)`, sql)
		assert.Equal(t, []any{"2024-03-05"}, args)

		sql, args, err = Dialect(dialect.SQLite).From("posts").
			WhereDay("created_at", "=", 5).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, `select * from "posts" where strftime('%d', "created_at") = cast(? as text)`, sql)
		assert.Equal(t, []any{"05"}, args)
	})

	t.Run("JSONSelector", func(t *testing.T) {
		sql, args, err := Dialect(dialect.SQLite).From("users").
			WhereEq("prefs->theme", "dark").ToSQL()
		require.NoError(t, err)
		assert.Equal(t, `select * from "users" where json_extract("prefs", '$."theme"') = ?`, sql)
		assert.Equal(t, []any{"dark"}, args)
	})

	t.Run("GlobOperator", func(t *testing.T) {
		sql, _, err := Dialect(dialect.SQLite).From("files").
			Where("path", "glob", "*.go").ToSQL()
		require.NoError(t, err)
		assert.Equal(t, `select * from "files" where "path" glob ?`, sql)
	})

	t.Run("LockRequestsDropped", func(t *testing.T) {
		sql, _, err := Dialect(dialect.SQLite).From("users").LockForUpdate().ToSQL()
		require.NoError(t, err)
		assert.Equal(t, `select * from "users"`, sql)
	})

	t.Run("InsertOrIgnore", func(t *testing.T) {
		b := Dialect(dialect.SQLite).From("users")
		sql, _, err := b.Grammar().CompileInsertOrIgnore(b, []Row{{"email": "a@x"}})
		require.NoError(t, err)
		assert.Equal(t, `insert or ignore into "users" ("email") values (?)`, sql)
	})

	t.Run("Upsert", func(t *testing.T) {
		b := Dialect(dialect.SQLite).From("users")
		sql, _, err := b.Grammar().CompileUpsert(b,
			[]Row{{"email": "a@x", "name": "A"}}, []string{"email"}, []string{"name"})
		require.NoError(t, err)
		assert.Equal(t,
			`insert into "users" ("email", "name") values (?, ?) on conflict ("email") do update set "name" = "excluded"."name"`,
			sql,
		)
	})

	t.Run("LimitedDeleteThroughRowid", func(t *testing.T) {
		b := Dialect(dialect.SQLite).From("users").
			WhereEq("active", false).OrderBy("id").Limit(3)
		sql, err := b.Grammar().CompileDelete(b)
		require.NoError(t, err)
		assert.Equal(t,
			`delete from "users" where "rowid" in (select "users"."rowid" from "users" where "active" = ? order by "id" asc limit 3)`,
			sql,
		)
	})

	t.Run("DeleteWithJoins", func(t *testing.T) {
		b := Dialect(dialect.SQLite).From("users").
			Join("contacts", "users.id", "=", "contacts.user_id")
		sql, err := b.Grammar().CompileDelete(b)
		require.NoError(t, err)
		assert.Equal(t,
			`delete from "users" where "rowid" in (select "users"."rowid" from "users" inner join "contacts" on "users"."id" = "contacts"."user_id")`,
			sql,
		)
	})

	t.Run("TruncateResetsSequence", func(t *testing.T) {
		b := Dialect(dialect.SQLite).From("users")
		stmts, err := b.Grammar().CompileTruncate(b)
		require.NoError(t, err)
		require.Len(t, stmts, 2)
		assert.Equal(t, "delete from sqlite_sequence where name = ?", stmts[0].SQL)
		assert.Equal(t, []any{"users"}, stmts[0].Bindings)
		assert.Equal(t, `delete from "users"`, stmts[1].SQL)
	})
}

func TestSQLServerGrammar(t *testing.T) {
	t.Run("TopForPlainLimit", func(t *testing.T) {
		sql, _, err := Dialect(dialect.SQLServer).From("users").Limit(5).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, `select top 5 * from [users]`, sql)
	})

	t.Run("OffsetFetch", func(t *testing.T) {
		sql, _, err := Dialect(dialect.SQLServer).From("users").Offset(10).Limit(5).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, `select * from [users] order by (select 0) offset 10 rows fetch next 5 rows only`, sql)

		sql, _, err = Dialect(dialect.SQLServer).From("users").
			OrderBy("id").Offset(10).Limit(5).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, `select * from [users] order by [id] asc offset 10 rows fetch next 5 rows only`, sql)
	})

	t.Run("LockTableHints", func(t *testing.T) {
		sql, _, err := Dialect(dialect.SQLServer).From("users").LockForUpdate().ToSQL()
		require.NoError(t, err)
		assert.Equal(t, `select * from [users] with(rowlock,updlock,holdlock)`, sql)

		sql, _, err = Dialect(dialect.SQLServer).From("users").SharedLock().ToSQL()
		require.NoError(t, err)
		assert.Equal(t, `select * from [users] with(rowlock,holdlock)`, sql)
	})

	t.Run("UnionPagination", func(t *testing.T) {
		sql, _, err := Dialect(dialect.SQLServer).From("a").
			Union(Func(func(q *Builder) { q.From("b") })).
			Limit(3).ToSQL()
		require.NoError(t, err)
		assert.Equal(t,
			`select * from (select * from [a]) as [temp_table] union select * from (select * from [b]) as [temp_table] order by (select 0) offset 0 rows fetch next 3 rows only`,
			sql,
		)
	})

	t.Run("CompileExists", func(t *testing.T) {
		b := Dialect(dialect.SQLServer).From("users").WhereEq("id", 1)
		sql, err := b.Grammar().CompileExists(b)
		require.NoError(t, err)
		assert.Equal(t, `select top 1 1 as [exists] from [users] where [id] = ?`, sql)
	})

	t.Run("DateParts", func(t *testing.T) {
		ts := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
		sql, args, err := Dialect(dialect.SQLServer).From("posts").
			WhereDate("created_at", "=", ts).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, `select * from [posts] where cast([created_at] as date) = ?`, sql)
		assert.Equal(t, []any{"2024-03-05"}, args)

		sql, args, err = Dialect(dialect.SQLServer).From("posts").
			WhereMonth("created_at", "=", 3).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, `select * from [posts] where datepart(month, [created_at]) = ?`, sql)
		assert.Equal(t, []any{"03"}, args)
	})

	t.Run("JSONSelector", func(t *testing.T) {
		sql, args, err := Dialect(dialect.SQLServer).From("users").
			WhereEq("prefs->theme", "dark").ToSQL()
		require.NoError(t, err)
		assert.Equal(t, `select * from [users] where json_value([prefs], '$."theme"') = ?`, sql)
		assert.Equal(t, []any{"dark"}, args)
	})

	t.Run("JSONBoolean", func(t *testing.T) {
		sql, _, err := Dialect(dialect.SQLServer).From("users").
			WhereEq("prefs->active", true).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, `select * from [users] where json_value([prefs], '$."active"') = 'true'`, sql)
	})

	t.Run("MergeUpsert", func(t *testing.T) {
		b := Dialect(dialect.SQLServer).From("users")
		sql, args, err := b.Grammar().CompileUpsert(b,
			[]Row{{"email": "a@x", "name": "A"}}, []string{"email"}, []string{"name"})
		require.NoError(t, err)
		assert.Equal(t,
			`merge [users] using (values (?, ?)) as [source] ([email], [name])`+
				` on [users].[email] = [source].[email]`+
				` when matched then update set [name] = [source].[name]`+
				` when not matched then insert ([email], [name]) values ([source].[email], [source].[name]);`,
			sql,
		)
		assert.Equal(t, []any{"a@x", "A"}, args)
	})

	t.Run("DeleteWithJoins", func(t *testing.T) {
		b := Dialect(dialect.SQLServer).From("users").
			Join("contacts", "users.id", "=", "contacts.user_id").
			WhereEq("users.active", true)
		sql, err := b.Grammar().CompileDelete(b)
		require.NoError(t, err)
		assert.Equal(t,
			`delete [users] from [users] inner join [contacts] on [users].[id] = [contacts].[user_id] where [users].[active] = ?`,
			sql,
		)
	})

	t.Run("Random", func(t *testing.T) {
		sql, _, err := Dialect(dialect.SQLServer).From("users").InRandomOrder().ToSQL()
		require.NoError(t, err)
		assert.Equal(t, `select * from [users] order by newid()`, sql)
	})
}
