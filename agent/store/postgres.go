package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	contractx "github.com/roamfit/roamfit/agent/contract"
)

type workoutRow struct {
	bun.BaseModel `bun:"table:workouts,alias:w"`

	ID        int64                 `bun:"id,pk,autoincrement"`
	Date      time.Time             `bun:"date,notnull"`
	Equipment []string              `bun:"equipment,type:jsonb"`
	Plan      contractx.WorkoutPlan `bun:"workout_plan,type:jsonb"`
	Location  *string               `bun:"location"`
	Completed bool                  `bun:"completed,notnull,default:false"`
}

type detectionRow struct {
	bun.BaseModel `bun:"table:equipment_detections,alias:d"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Timestamp time.Time `bun:"timestamp,notnull"`
	ImageRef  string    `bun:"image_ref,notnull"`
	Equipment []string  `bun:"detected_equipment,type:jsonb"`
	Location  *string   `bun:"location"`
}

type callLogRow struct {
	bun.BaseModel `bun:"table:llm_logs,alias:l"`

	ID         int64     `bun:"id,pk,autoincrement"`
	Capability string    `bun:"capability,notnull"`
	Model      string    `bun:"model,notnull"`
	Status     string    `bun:"status,notnull"`
	TokensIn   int       `bun:"tokens_in,notnull,default:0"`
	TokensOut  int       `bun:"tokens_out,notnull,default:0"`
	LatencyMS  int64     `bun:"latency_ms,notnull,default:0"`
	Error      *string   `bun:"error_message"`
	CreatedAt  time.Time `bun:"created_at,notnull"`
}

// PostgresStore implements Store on top of bun.
type PostgresStore struct {
	db  *bun.DB
	now func() time.Time
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(db *bun.DB) *PostgresStore {
	return &PostgresStore{
		db:  db,
		now: time.Now,
	}
}

// Init creates the tables if they do not exist.
func (s *PostgresStore) Init(ctx context.Context) error {
	models := []any{
		(*workoutRow)(nil),
		(*detectionRow)(nil),
		(*callLogRow)(nil),
	}
	for _, model := range models {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) CreateWorkout(
	ctx context.Context,
	equipment []string,
	plan contractx.WorkoutPlan,
	location string,
	completed bool,
) (int64, error) {
	row := &workoutRow{
		Date:      s.now().UTC(),
		Equipment: equipment,
		Plan:      plan,
		Location:  nullableString(location),
		Completed: completed,
	}
	if _, err := s.db.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
		return 0, fmt.Errorf("insert workout: %w", err)
	}
	return row.ID, nil
}

func (s *PostgresStore) GetWorkout(ctx context.Context, id int64) (*contractx.WorkoutRecord, error) {
	row := new(workoutRow)
	err := s.db.NewSelect().Model(row).Where("w.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select workout: %w", err)
	}
	record := rowToRecord(row)
	return &record, nil
}

func (s *PostgresStore) ListWorkouts(ctx context.Context, limit int) ([]contractx.WorkoutRecord, error) {
	var rows []workoutRow
	q := s.db.NewSelect().Model(&rows).Order("date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	records := make([]contractx.WorkoutRecord, 0, len(rows))
	for i := range rows {
		records = append(records, rowToRecord(&rows[i]))
	}
	return records, nil
}

func (s *PostgresStore) UpdateWorkout(ctx context.Context, id int64, patch contractx.WorkoutPatch) (bool, error) {
	if patch.IsZero() {
		return false, nil
	}

	row := &workoutRow{ID: id}
	columns := patchColumns(row, patch)

	res, err := s.db.NewUpdate().Model(row).Column(columns...).WherePK().Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("update workout: %w", err)
	}
	return affected(res), nil
}

func (s *PostgresStore) DeleteWorkout(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.NewDelete().Model((*workoutRow)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("delete workout: %w", err)
	}
	return affected(res), nil
}

func (s *PostgresStore) SetCompletion(ctx context.Context, id int64, completed bool) (bool, error) {
	row := &workoutRow{ID: id, Completed: completed}
	res, err := s.db.NewUpdate().Model(row).Column("completed").WherePK().Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("set completion: %w", err)
	}
	return affected(res), nil
}

func (s *PostgresStore) CreateDetection(ctx context.Context, imageRef string, equipment []string, location string) (int64, error) {
	if equipment == nil {
		equipment = []string{}
	}
	row := &detectionRow{
		Timestamp: s.now().UTC(),
		ImageRef:  imageRef,
		Equipment: equipment,
		Location:  nullableString(location),
	}
	if _, err := s.db.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
		return 0, fmt.Errorf("insert detection: %w", err)
	}
	return row.ID, nil
}

func (s *PostgresStore) LogCall(ctx context.Context, rec CallRecord) (int64, error) {
	row := &callLogRow{
		Capability: rec.Capability,
		Model:      rec.Model,
		Status:     rec.Status,
		TokensIn:   rec.TokensIn,
		TokensOut:  rec.TokensOut,
		LatencyMS:  rec.LatencyMS,
		Error:      nullableString(rec.Error),
		CreatedAt:  s.now().UTC(),
	}
	if _, err := s.db.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
		return 0, fmt.Errorf("insert call log: %w", err)
	}
	return row.ID, nil
}

type usageScan struct {
	Key          string  `bun:"key"`
	Calls        int64   `bun:"calls"`
	Failures     int64   `bun:"failures"`
	TokensIn     int64   `bun:"tokens_in"`
	TokensOut    int64   `bun:"tokens_out"`
	AvgLatencyMS float64 `bun:"avg_latency_ms"`
}

func (s *PostgresStore) AggregateUsage(ctx context.Context) (UsageReport, error) {
	report := UsageReport{
		ByCapability: map[string]UsageTotals{},
		ByModel:      map[string]UsageTotals{},
	}

	var total usageScan
	err := s.usageQuery().ColumnExpr("'total' AS key").Scan(ctx, &total)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return UsageReport{}, fmt.Errorf("aggregate usage totals: %w", err)
	}
	report.Totals = total.totals()

	byCapability, err := s.usageBreakdown(ctx, "capability")
	if err != nil {
		return UsageReport{}, err
	}
	report.ByCapability = byCapability

	byModel, err := s.usageBreakdown(ctx, "model")
	if err != nil {
		return UsageReport{}, err
	}
	report.ByModel = byModel

	return report, nil
}

func (s *PostgresStore) usageBreakdown(ctx context.Context, column string) (map[string]UsageTotals, error) {
	var rows []usageScan
	err := s.usageQuery().
		ColumnExpr("? AS key", bun.Ident(column)).
		GroupExpr("?", bun.Ident(column)).
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("aggregate usage by %s: %w", column, err)
	}

	out := make(map[string]UsageTotals, len(rows))
	for _, row := range rows {
		out[row.Key] = row.totals()
	}
	return out, nil
}

func (s *PostgresStore) usageQuery() *bun.SelectQuery {
	return s.db.NewSelect().
		Model((*callLogRow)(nil)).
		ColumnExpr("count(*) AS calls").
		ColumnExpr("count(*) FILTER (WHERE status = ?) AS failures", StatusFailed).
		ColumnExpr("coalesce(sum(tokens_in), 0) AS tokens_in").
		ColumnExpr("coalesce(sum(tokens_out), 0) AS tokens_out").
		ColumnExpr("coalesce(avg(latency_ms), 0) AS avg_latency_ms")
}

func (u usageScan) totals() UsageTotals {
	return UsageTotals{
		Calls:        u.Calls,
		Failures:     u.Failures,
		TokensIn:     u.TokensIn,
		TokensOut:    u.TokensOut,
		AvgLatencyMS: u.AvgLatencyMS,
	}
}

func rowToRecord(row *workoutRow) contractx.WorkoutRecord {
	record := contractx.WorkoutRecord{
		ID:        row.ID,
		Date:      row.Date,
		Equipment: row.Equipment,
		Plan:      row.Plan,
		Completed: row.Completed,
	}
	if row.Location != nil {
		record.Location = *row.Location
	}
	return record
}

func patchColumns(row *workoutRow, patch contractx.WorkoutPatch) []string {
	var columns []string
	if patch.Equipment != nil {
		row.Equipment = *patch.Equipment
		columns = append(columns, "equipment")
	}
	if patch.Plan != nil {
		row.Plan = *patch.Plan
		columns = append(columns, "workout_plan")
	}
	if patch.Location != nil {
		row.Location = patch.Location
		columns = append(columns, "location")
	}
	if patch.Completed != nil {
		row.Completed = *patch.Completed
		columns = append(columns, "completed")
	}
	return columns
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func affected(res sql.Result) bool {
	n, err := res.RowsAffected()
	return err == nil && n > 0
}
