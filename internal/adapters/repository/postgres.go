package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/som23ya/workwale-core/internal/domain/lifecycle"
	"github.com/som23ya/workwale-core/internal/domain/model"
)

const defaultQueryTimeout = 5 * time.Second

// Postgres implements MatchStore and ApplicationStore on a pgx pool.
//
// Schema:
//
//	matches          (candidate_id, job_id) primary key, score, matching_skills
//	                 jsonb, missing_skills jsonb, features jsonb, explanation,
//	                 posted_at, computed_at
//	applications     id primary key, candidate_id, job_id, status, version,
//	                 created_at, updated_at; unique (candidate_id, job_id)
//	status_history   (application_id, seq) primary key, from_status, to_status,
//	                 actor, at
type Postgres struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
}

// NewPostgres creates a Postgres store on an existing pool.
func NewPostgres(pool *pgxpool.Pool, opts ...PostgresOption) *Postgres {
	p := &Postgres{
		pool:         pool,
		queryTimeout: defaultQueryTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ReplaceForCandidate swaps the candidate's match set in a single
// transaction: readers on other connections see the old set until commit.
func (p *Postgres) ReplaceForCandidate(ctx context.Context, candidateID string, records []model.MatchRecord) ([]model.MatchRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, p.queryTimeout)
	defer cancel()

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin match replace: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	rows, err := tx.Query(ctx,
		`SELECT job_id FROM matches WHERE candidate_id = $1`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("read previous match set: %w", err)
	}
	previous := make(map[string]struct{})
	for rows.Next() {
		var jobID string
		if err := rows.Scan(&jobID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan previous match: %w", err)
		}
		previous[jobID] = struct{}{}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read previous match set: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM matches WHERE candidate_id = $1`, candidateID); err != nil {
		return nil, fmt.Errorf("clear match set: %w", err)
	}

	created := make([]model.MatchRecord, 0)
	for _, rec := range records {
		matching, err := json.Marshal(rec.MatchingSkills)
		if err != nil {
			return nil, fmt.Errorf("encode matching skills: %w", err)
		}
		missing, err := json.Marshal(rec.MissingSkills)
		if err != nil {
			return nil, fmt.Errorf("encode missing skills: %w", err)
		}
		features, err := json.Marshal(rec.Features)
		if err != nil {
			return nil, fmt.Errorf("encode features: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO matches
			   (candidate_id, job_id, score, matching_skills, missing_skills,
			    features, explanation, posted_at, computed_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			rec.CandidateID, rec.JobID, rec.Score, matching, missing,
			features, rec.Explanation, rec.PostedAt, rec.ComputedAt); err != nil {
			return nil, fmt.Errorf("insert match %s/%s: %w", rec.CandidateID, rec.JobID, err)
		}
		if _, ok := previous[rec.JobID]; !ok {
			created = append(created, rec)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit match replace: %w", err)
	}
	return created, nil
}

func (p *Postgres) ListForCandidate(ctx context.Context, candidateID string) ([]model.MatchRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, p.queryTimeout)
	defer cancel()

	rows, err := p.pool.Query(ctx,
		`SELECT candidate_id, job_id, score, matching_skills, missing_skills,
		        features, explanation, posted_at, computed_at
		   FROM matches WHERE candidate_id = $1`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	out := make([]model.MatchRecord, 0)
	for rows.Next() {
		var (
			rec                         model.MatchRecord
			matching, missing, features []byte
		)
		if err := rows.Scan(&rec.CandidateID, &rec.JobID, &rec.Score,
			&matching, &missing, &features, &rec.Explanation,
			&rec.PostedAt, &rec.ComputedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		if err := json.Unmarshal(matching, &rec.MatchingSkills); err != nil {
			return nil, fmt.Errorf("decode matching skills: %w", err)
		}
		if err := json.Unmarshal(missing, &rec.MissingSkills); err != nil {
			return nil, fmt.Errorf("decode missing skills: %w", err)
		}
		if err := json.Unmarshal(features, &rec.Features); err != nil {
			return nil, fmt.Errorf("decode features: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return out, nil
}

func (p *Postgres) Create(ctx context.Context, app lifecycle.Application) error {
	ctx, cancel := context.WithTimeout(ctx, p.queryTimeout)
	defer cancel()

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin application create: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM applications WHERE candidate_id = $1 AND job_id = $2
		 )`, app.CandidateID, app.JobID).Scan(&exists); err != nil {
		return fmt.Errorf("check duplicate application: %w", err)
	}
	if exists {
		return ErrDuplicateApplication
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO applications
		   (id, candidate_id, job_id, status, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		app.ID, app.CandidateID, app.JobID, string(app.Status),
		app.Version, app.CreatedAt, app.UpdatedAt); err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	for _, rec := range app.History {
		if err := insertHistory(ctx, tx, app.ID, rec); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit application create: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, id string) (lifecycle.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, p.queryTimeout)
	defer cancel()

	return p.get(ctx, p.pool, id)
}

// Transition applies the change as a guarded UPDATE plus one history INSERT
// in a single transaction. A zero-row UPDATE means the version was stale.
func (p *Postgres) Transition(ctx context.Context, id string, to lifecycle.Status, expectedVersion int64, actor string, at time.Time) (lifecycle.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, p.queryTimeout)
	defer cancel()

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return lifecycle.Application{}, fmt.Errorf("begin transition: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	app, err := p.get(ctx, tx, id)
	if err != nil {
		return lifecycle.Application{}, err
	}
	if app.Version != expectedVersion {
		return lifecycle.Application{}, &ConflictError{
			ApplicationID: id,
			Expected:      expectedVersion,
			Actual:        app.Version,
		}
	}

	next, err := app.Transitioned(to, actor, at)
	if err != nil {
		return lifecycle.Application{}, err
	}

	tag, err := tx.Exec(ctx,
		`UPDATE applications
		    SET status = $1, version = version + 1, updated_at = $2
		  WHERE id = $3 AND version = $4`,
		string(next.Status), at, id, expectedVersion)
	if err != nil {
		return lifecycle.Application{}, fmt.Errorf("update application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return lifecycle.Application{}, &ConflictError{
			ApplicationID: id,
			Expected:      expectedVersion,
			Actual:        app.Version,
		}
	}

	if err := insertHistory(ctx, tx, id, next.History[len(next.History)-1]); err != nil {
		return lifecycle.Application{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return lifecycle.Application{}, fmt.Errorf("commit transition: %w", err)
	}
	return next, nil
}

// querier covers both pool and transaction query surfaces.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (p *Postgres) get(ctx context.Context, q querier, id string) (lifecycle.Application, error) {
	var app lifecycle.Application
	var status string
	err := q.QueryRow(ctx,
		`SELECT id, candidate_id, job_id, status, version, created_at, updated_at
		   FROM applications WHERE id = $1`, id).
		Scan(&app.ID, &app.CandidateID, &app.JobID, &status,
			&app.Version, &app.CreatedAt, &app.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return lifecycle.Application{}, ErrApplicationNotFound
	}
	if err != nil {
		return lifecycle.Application{}, fmt.Errorf("read application: %w", err)
	}
	app.Status = lifecycle.Status(status)

	rows, err := q.Query(ctx,
		`SELECT seq, from_status, to_status, actor, at
		   FROM status_history WHERE application_id = $1 ORDER BY seq`, id)
	if err != nil {
		return lifecycle.Application{}, fmt.Errorf("read history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec lifecycle.TransitionRecord
		var from, to string
		if err := rows.Scan(&rec.Seq, &from, &to, &rec.Actor, &rec.At); err != nil {
			return lifecycle.Application{}, fmt.Errorf("scan history entry: %w", err)
		}
		rec.From = lifecycle.Status(from)
		rec.To = lifecycle.Status(to)
		app.History = append(app.History, rec)
	}
	if err := rows.Err(); err != nil {
		return lifecycle.Application{}, fmt.Errorf("read history: %w", err)
	}
	return app, nil
}

func insertHistory(ctx context.Context, tx pgx.Tx, applicationID string, rec lifecycle.TransitionRecord) error {
	if _, err := tx.Exec(ctx,
		`INSERT INTO status_history (application_id, seq, from_status, to_status, actor, at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		applicationID, rec.Seq, string(rec.From), string(rec.To), rec.Actor, rec.At); err != nil {
		return fmt.Errorf("insert history entry %d: %w", rec.Seq, err)
	}
	return nil
}
