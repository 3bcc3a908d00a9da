package prompts_test

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/tavern/internal/migrations"
	"github.com/JaimeStill/tavern/internal/prompts"
	"github.com/JaimeStill/tavern/pkg/database"
)

func newSystem(t *testing.T) (prompts.System, database.System) {
	t.Helper()

	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)

	cfg := &database.Config{Path: filepath.Join(t.TempDir(), "prompts.db")}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize config: %v", err)
	}

	db, err := database.Open(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := migrations.Apply(ctx, cfg, db, logger); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	return prompts.New(db, logger), db
}

func templatesOf(ps []prompts.Prompt) []prompts.Template {
	out := make([]prompts.Template, len(ps))
	for i, p := range ps {
		out[i] = p.Template()
	}
	return out
}

func idsByName(ps []prompts.Prompt) map[string]uuid.UUID {
	out := make(map[string]uuid.UUID, len(ps))
	for _, p := range ps {
		out[p.Name] = p.ID
	}
	return out
}

func TestSeedReplace(t *testing.T) {
	sys, _ := newSystem(t)
	ctx := context.Background()
	catalog := prompts.Catalog()

	result, err := sys.Seed(ctx, catalog, prompts.StrategyReplace)
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if result.Inserted != len(catalog) || result.Removed != 0 {
		t.Errorf("result = %+v, want %d inserted, 0 removed", result, len(catalog))
	}

	count, err := sys.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != len(catalog) {
		t.Errorf("Count() = %d, want %d", count, len(catalog))
	}

	list, err := sys.List(ctx, prompts.Filters{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	seen := make(map[string]bool)
	for i, p := range list {
		if seen[p.Name] {
			t.Errorf("duplicate name %s", p.Name)
		}
		seen[p.Name] = true
		if !p.Active {
			t.Errorf("%s is inactive", p.Name)
		}
		if p.Position != i {
			t.Errorf("%s position = %d, want %d", p.Name, p.Position, i)
		}
	}

	if !reflect.DeepEqual(templatesOf(list), catalog) {
		t.Error("listed prompts do not match catalog order and content")
	}
}

func TestSeedReplaceTwiceIsStable(t *testing.T) {
	sys, _ := newSystem(t)
	ctx := context.Background()
	catalog := prompts.Catalog()

	if _, err := sys.Seed(ctx, catalog, prompts.StrategyReplace); err != nil {
		t.Fatalf("first Seed() error = %v", err)
	}
	first, _ := sys.List(ctx, prompts.Filters{})

	result, err := sys.Seed(ctx, catalog, prompts.StrategyReplace)
	if err != nil {
		t.Fatalf("second Seed() error = %v", err)
	}
	if result.Removed != len(catalog) || result.Inserted != len(catalog) {
		t.Errorf("second result = %+v, want %d removed and inserted", result, len(catalog))
	}

	second, _ := sys.List(ctx, prompts.Filters{})
	if len(first) != len(second) {
		t.Fatalf("row count changed: %d -> %d", len(first), len(second))
	}
	if !reflect.DeepEqual(templatesOf(first), templatesOf(second)) {
		t.Error("row contents changed between runs")
	}
}

func TestSeedReplaceClearsUnknownRows(t *testing.T) {
	sys, db := newSystem(t)
	ctx := context.Background()

	_, err := db.Connection().Exec(
		"INSERT INTO prompts (id, name, category, content) VALUES (?, 'legacy_prompt', 'persona', 'old')",
		uuid.New(),
	)
	if err != nil {
		t.Fatalf("insert legacy row: %v", err)
	}

	result, err := sys.Seed(ctx, prompts.Catalog(), prompts.StrategyReplace)
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if result.Removed != 1 {
		t.Errorf("Removed = %d, want 1", result.Removed)
	}

	if _, err := sys.Find(ctx, "legacy_prompt"); !errors.Is(err, prompts.ErrNotFound) {
		t.Errorf("Find(legacy_prompt) error = %v, want ErrNotFound", err)
	}
}

func TestSeedRejectsDuplicateNamesBeforeWriting(t *testing.T) {
	sys, _ := newSystem(t)
	ctx := context.Background()

	if _, err := sys.Seed(ctx, prompts.Catalog(), prompts.StrategyReplace); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	bad := append(prompts.Catalog(), prompts.Catalog()[0])
	if _, err := sys.Seed(ctx, bad, prompts.StrategyReplace); !errors.Is(err, prompts.ErrDuplicate) {
		t.Fatalf("Seed(duplicate) error = %v, want ErrDuplicate", err)
	}

	count, _ := sys.Count(ctx)
	if count != len(prompts.Catalog()) {
		t.Errorf("Count() = %d after rejected seed, want %d", count, len(prompts.Catalog()))
	}
}

func TestSeedReplaceRollsBackOnInsertFailure(t *testing.T) {
	sys, db := newSystem(t)
	ctx := context.Background()

	if _, err := sys.Seed(ctx, prompts.Catalog(), prompts.StrategyReplace); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	before, _ := sys.List(ctx, prompts.Filters{})

	_, err := db.Connection().Exec(`
		CREATE TRIGGER reject_broken BEFORE INSERT ON prompts
		WHEN NEW.name = 'broken'
		BEGIN SELECT RAISE(ABORT, 'rejected by trigger'); END`)
	if err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	templates := append(prompts.Catalog(), prompts.Template{
		Name:     "broken",
		Category: prompts.CategoryFallback,
		Content:  "never stored",
	})
	if _, err := sys.Seed(ctx, templates, prompts.StrategyReplace); err == nil {
		t.Fatal("Seed() succeeded, want trigger failure")
	}

	after, _ := sys.List(ctx, prompts.Filters{})
	if !reflect.DeepEqual(before, after) {
		t.Error("failed seed left the table modified")
	}
}

func TestSeedInvalidStrategy(t *testing.T) {
	sys, _ := newSystem(t)

	_, err := sys.Seed(context.Background(), prompts.Catalog(), "merge")
	if !errors.Is(err, prompts.ErrInvalidStrategy) {
		t.Errorf("Seed(merge) error = %v, want ErrInvalidStrategy", err)
	}
}

func TestSeedSync(t *testing.T) {
	sys, _ := newSystem(t)
	ctx := context.Background()
	catalog := prompts.Catalog()

	first, err := sys.Seed(ctx, catalog, prompts.StrategySync)
	if err != nil {
		t.Fatalf("first Seed() error = %v", err)
	}
	if first.Inserted != len(catalog) {
		t.Errorf("first Inserted = %d, want %d", first.Inserted, len(catalog))
	}
	initial, _ := sys.List(ctx, prompts.Filters{})

	t.Run("unchanged catalog writes nothing", func(t *testing.T) {
		result, err := sys.Seed(ctx, catalog, prompts.StrategySync)
		if err != nil {
			t.Fatalf("Seed() error = %v", err)
		}
		want := prompts.SeedResult{Strategy: prompts.StrategySync, Unchanged: len(catalog)}
		if *result != want {
			t.Errorf("result = %+v, want %+v", *result, want)
		}

		current, _ := sys.List(ctx, prompts.Filters{})
		if !reflect.DeepEqual(initial, current) {
			t.Error("rows changed on a no-op sync")
		}
	})

	t.Run("edits, additions, and removals", func(t *testing.T) {
		edited := prompts.Catalog()
		edited[0].Content = "revised rules"
		removedName := edited[len(edited)-1].Name
		edited = edited[:len(edited)-1]
		edited = append(edited, prompts.Template{
			Name:        "frontend_title",
			Category:    prompts.CategoryFrontend,
			Content:     "Suggest a short title for this chat.",
			Description: "Chat title generator",
		})

		result, err := sys.Seed(ctx, edited, prompts.StrategySync)
		if err != nil {
			t.Fatalf("Seed() error = %v", err)
		}
		if result.Updated != 1 || result.Inserted != 1 || result.Removed != 1 {
			t.Errorf("result = %+v, want 1 updated, 1 inserted, 1 removed", result)
		}

		current, _ := sys.List(ctx, prompts.Filters{})
		if !reflect.DeepEqual(templatesOf(current), edited) {
			t.Error("table does not match edited catalog")
		}

		before := idsByName(initial)
		after := idsByName(current)
		if before[edited[0].Name] != after[edited[0].Name] {
			t.Error("updated prompt changed id")
		}
		if _, ok := after[removedName]; ok {
			t.Errorf("%s was not removed", removedName)
		}
	})
}

func TestFind(t *testing.T) {
	sys, _ := newSystem(t)
	ctx := context.Background()

	if _, err := sys.Seed(ctx, prompts.Catalog(), prompts.StrategyReplace); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	p, err := sys.Find(ctx, "fallback_reply")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if p.Category != prompts.CategoryFallback {
		t.Errorf("category = %q, want fallback", p.Category)
	}
	if p.ID == uuid.Nil {
		t.Error("id not assigned")
	}

	if _, err := sys.Find(ctx, "missing"); !errors.Is(err, prompts.ErrNotFound) {
		t.Errorf("Find(missing) error = %v, want ErrNotFound", err)
	}
}

func TestListFilters(t *testing.T) {
	sys, db := newSystem(t)
	ctx := context.Background()

	if _, err := sys.Seed(ctx, prompts.Catalog(), prompts.StrategyReplace); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if _, err := db.Connection().Exec("UPDATE prompts SET active = ? WHERE name = 'persona_narrator'", false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	persona := prompts.CategoryPersona
	active := true
	inactive := false

	tests := []struct {
		name    string
		filters prompts.Filters
		want    []string
	}{
		{"category", prompts.Filters{Category: &persona}, []string{"persona_default", "persona_narrator"}},
		{"category and active", prompts.Filters{Category: &persona, Active: &active}, []string{"persona_default"}},
		{"inactive", prompts.Filters{Active: &inactive}, []string{"persona_narrator"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := sys.List(ctx, tt.filters)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			got := make([]string, len(list))
			for i, p := range list {
				got[i] = p.Name
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("List() = %v, want %v", got, tt.want)
			}
		})
	}
}
