package main

import (
	"context"
	"crypto/sha256"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/budgetbuddy/budgetbuddy/internal/logger"
)

// migration is one versioned SQL file from the migrations directory.
type migration struct {
	version  int
	name     string
	sql      string
	checksum string
}

var migrationFilePattern = regexp.MustCompile(`^(\d{4})_(.+)\.sql$`)

var (
	projectID     = flag.String("project", os.Getenv("GCP_PROJECT_ID"), "GCP project ID (or set GCP_PROJECT_ID env)")
	datasetID     = flag.String("dataset", "budgetbuddy", "BigQuery dataset ID")
	migrationsDir = flag.String("migrations", "migrations/bigquery", "Path to migrations directory")
)

func main() {
	flag.Parse()

	log := logger.New()
	ctx := context.Background()

	if *projectID == "" {
		log.Fatal().Msg("Error: -project is required")
	}

	client, err := bigquery.NewClient(ctx, *projectID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery client")
	}
	defer client.Close()

	if err := ensureVersionTable(ctx, client); err != nil {
		log.Fatal().Err(err).Msg("Failed to create schema_migrations table")
	}

	migrations, err := loadMigrations(*migrationsDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load migrations")
	}

	applied, err := appliedVersions(ctx, client)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read applied migrations")
	}

	ran := 0
	for _, m := range migrations {
		if applied[m.version] {
			log.Info().Int("version", m.version).Str("name", m.name).Msg("Already applied, skipping")
			continue
		}

		log.Info().Int("version", m.version).Str("name", m.name).Msg("Applying migration")
		if err := runStatement(ctx, client, m.sql); err != nil {
			log.Fatal().Err(err).Int("version", m.version).Msg("Migration failed")
		}
		if err := recordApplied(ctx, client, m); err != nil {
			log.Fatal().Err(err).Int("version", m.version).Msg("Failed to record migration")
		}
		ran++
	}

	if ran == 0 {
		log.Info().Msg("Schema is up to date")
	} else {
		log.Info().Int("applied", ran).Msg("Migrations applied")
	}
}

func ensureVersionTable(ctx context.Context, client *bigquery.Client) error {
	sql := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS `+"`%s.%s.schema_migrations`"+` (
			version     INT64 NOT NULL,
			name        STRING NOT NULL,
			applied_at  TIMESTAMP NOT NULL,
			checksum    STRING
		)
	`, *projectID, *datasetID)
	return runStatement(ctx, client, sql)
}

// loadMigrations reads every NNNN_name.sql file under dir, substitutes the
// project and dataset placeholders, and returns them sorted by version. The
// checksum covers the raw file so moving between datasets does not re-apply.
func loadMigrations(dir string) ([]migration, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		dir = filepath.Join("..", "..", dir)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return nil, fmt.Errorf("migrations directory not found: %s", *migrationsDir)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory: %w", err)
	}

	var migrations []migration
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matches := migrationFilePattern.FindStringSubmatch(entry.Name())
		if matches == nil {
			continue
		}
		version, err := strconv.Atoi(matches[1])
		if err != nil {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}

		sql := strings.ReplaceAll(string(raw), "{{PROJECT_ID}}", *projectID)
		sql = strings.ReplaceAll(sql, "{{DATASET_ID}}", *datasetID)

		migrations = append(migrations, migration{
			version:  version,
			name:     matches[2],
			sql:      sql,
			checksum: fmt.Sprintf("%x", sha256.Sum256(raw)),
		})
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].version < migrations[j].version })
	return migrations, nil
}

func appliedVersions(ctx context.Context, client *bigquery.Client) (map[int]bool, error) {
	sql := fmt.Sprintf("SELECT version FROM `%s.%s.schema_migrations`", *projectID, *datasetID)

	it, err := client.Query(sql).Read(ctx)
	if err != nil {
		if strings.Contains(err.Error(), "Not found") {
			return map[int]bool{}, nil
		}
		return nil, fmt.Errorf("reading applied migrations: %w", err)
	}

	applied := make(map[int]bool)
	for {
		var row struct {
			Version int64
		}
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterating results: %w", err)
		}
		applied[int(row.Version)] = true
	}
	return applied, nil
}

func recordApplied(ctx context.Context, client *bigquery.Client, m migration) error {
	sql := fmt.Sprintf(`
		INSERT INTO `+"`%s.%s.schema_migrations`"+` (version, name, applied_at, checksum)
		VALUES (@version, @name, CURRENT_TIMESTAMP(), @checksum)
	`, *projectID, *datasetID)

	q := client.Query(sql)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "version", Value: m.version},
		{Name: "name", Value: m.name},
		{Name: "checksum", Value: m.checksum},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("running query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("waiting for job: %w", err)
	}
	return status.Err()
}

func runStatement(ctx context.Context, client *bigquery.Client, sql string) error {
	job, err := client.Query(sql).Run(ctx)
	if err != nil {
		return fmt.Errorf("running query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("waiting for job: %w", err)
	}
	return status.Err()
}
