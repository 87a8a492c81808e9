package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/glaubern8n01/rotaspeed-unificado/internal/domain"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/ports"
)

// SQLite-backed implementation of the PackageStore port.
//
// The table keeps the original "entregas" schema, including the Portuguese
// status vocabulary; mapping to the domain vocabulary happens here.
type SqlitePackageStore struct{ DB *sql.DB }

func NewSqlitePackageStore(db *sql.DB) *SqlitePackageStore {
	return &SqlitePackageStore{DB: db}
}

const packageColumns = `
	id,
	user_id,
	status,
	full_address,
	street,
	number,
	bairro,
	complemento,
	cep,
	city,
	state,
	recipient_name,
	telefone,
	original_input,
	input_type,
	optimized_order,
	route_id,
	delivery_notes,
	created_at
`

// Persist drafts in pending status inside one transaction, so the call is
// all-or-nothing from the caller's perspective. Ids are assigned here.
func (s *SqlitePackageStore) Create(ctx context.Context, drafts []domain.PackageDraft) ([]*domain.Package, error) {
	if s.DB == nil {
		return nil, errors.New("package store: DB is nil")
	}

	if len(drafts) == 0 {
		return []*domain.Package{}, nil
	}

	for i, d := range drafts {
		if strings.TrimSpace(d.OwnerID) == "" {
			return nil, fmt.Errorf("create packages: draft #%d has empty owner id", i+1)
		}
		if strings.TrimSpace(d.FullAddress) == "" {
			return nil, fmt.Errorf("create packages: draft #%d has empty address", i+1)
		}
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create packages: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO entregas (
		id, user_id, status, full_address, street, number, bairro, complemento,
		cep, city, state, recipient_name, telefone, original_input, input_type,
		delivery_notes, created_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return nil, fmt.Errorf("create packages: prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	created := make([]*domain.Package, 0, len(drafts))
	for _, d := range drafts {
		pkg := &domain.Package{
			ID:             uuid.NewString(),
			OwnerID:        d.OwnerID,
			FullAddress:    strings.TrimSpace(d.FullAddress),
			Street:         d.Street,
			Number:         d.Number,
			Neighborhood:   d.Neighborhood,
			Complement:     d.Complement,
			PostalCode:     d.PostalCode,
			City:           d.City,
			Region:         d.Region,
			RecipientName:  d.RecipientName,
			Phone:          d.Phone,
			Status:         domain.StatusPending,
			SourceKind:     d.SourceKind,
			SourceRawInput: d.SourceRawInput,
			CreatedAt:      now,
		}

		_, err := stmt.ExecContext(ctx,
			pkg.ID, pkg.OwnerID, domain.StoredStatus(pkg.Status), pkg.FullAddress,
			pkg.Street, pkg.Number, pkg.Neighborhood, pkg.Complement,
			pkg.PostalCode, pkg.City, pkg.Region, pkg.RecipientName, pkg.Phone,
			pkg.SourceRawInput, string(pkg.SourceKind), pkg.DeliveryNotes,
			pkg.CreatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return nil, fmt.Errorf("create packages: insert id=%s: %w", pkg.ID, err)
		}

		created = append(created, pkg)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create packages: commit tx: %w", err)
	}

	return created, nil
}

// Return all packages for one owner, any status, oldest first.
func (s *SqlitePackageStore) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Package, error) {
	if s.DB == nil {
		return nil, errors.New("package store: DB is nil")
	}

	if strings.TrimSpace(ownerID) == "" {
		return nil, errors.New("list packages: owner id must not be empty")
	}

	query := `
	SELECT ` + packageColumns + `
	FROM entregas
	WHERE user_id = ?
	ORDER BY created_at, id;
	`
	rows, err := s.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list packages: query entregas table: %w", err)
	}
	defer rows.Close()

	packages := make([]*domain.Package, 0, 64)
	for rows.Next() {
		pkg, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("list packages: %w", err)
		}
		packages = append(packages, pkg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list packages: row iteration: %w", err)
	}

	return packages, nil
}

// Update a single package's status and return the fresh record.
func (s *SqlitePackageStore) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Package, error) {
	if s.DB == nil {
		return nil, errors.New("package store: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `
	UPDATE entregas
	SET status = ?
	WHERE id = ?;
	`, domain.StoredStatus(status), id)
	if err != nil {
		return nil, fmt.Errorf("update status: exec id=%s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update status: rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ports.ErrNotFound
	}

	return s.getByID(ctx, id)
}

// Apply sequence/route/status to many packages, reporting per-id failures.
// Each assignment is its own statement; one failed row must not abort the
// rest, the caller reconciles against the surviving subset.
func (s *SqlitePackageStore) BulkAssignRoute(ctx context.Context, assignments []ports.RouteAssignment) (*ports.BulkAssignResult, error) {
	if s.DB == nil {
		return nil, errors.New("package store: DB is nil")
	}

	result := &ports.BulkAssignResult{}
	for _, a := range assignments {
		if a.SequenceNumber < 1 {
			result.Failed = append(result.Failed, ports.AssignFailure{
				PackageID: a.PackageID,
				Err:       fmt.Errorf("sequence number %d is not positive", a.SequenceNumber),
			})
			continue
		}

		res, err := s.DB.ExecContext(ctx, `
		UPDATE entregas
		SET optimized_order = ?, route_id = ?, status = ?
		WHERE id = ?;
		`, a.SequenceNumber, a.RouteID, domain.StoredStatus(a.Status), a.PackageID)
		if err != nil {
			result.Failed = append(result.Failed, ports.AssignFailure{PackageID: a.PackageID, Err: err})
			continue
		}

		affected, err := res.RowsAffected()
		if err != nil {
			result.Failed = append(result.Failed, ports.AssignFailure{PackageID: a.PackageID, Err: err})
			continue
		}
		if affected == 0 {
			result.Failed = append(result.Failed, ports.AssignFailure{PackageID: a.PackageID, Err: ports.ErrNotFound})
			continue
		}

		pkg, err := s.getByID(ctx, a.PackageID)
		if err != nil {
			result.Failed = append(result.Failed, ports.AssignFailure{PackageID: a.PackageID, Err: err})
			continue
		}
		result.Assigned = append(result.Assigned, pkg)
	}

	return result, nil
}

// Remove a package. ErrNotFound when no row matched.
func (s *SqlitePackageStore) Delete(ctx context.Context, id string) error {
	if s.DB == nil {
		return errors.New("package store: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM entregas WHERE id = ?;`, id)
	if err != nil {
		return fmt.Errorf("delete package: exec id=%s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete package: rows affected: %w", err)
	}
	if affected == 0 {
		return ports.ErrNotFound
	}

	return nil
}

func (s *SqlitePackageStore) getByID(ctx context.Context, id string) (*domain.Package, error) {
	row := s.DB.QueryRowContext(ctx, `
	SELECT `+packageColumns+`
	FROM entregas
	WHERE id = ?;
	`, id)

	pkg, err := scanPackage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get package id=%s: %w", id, err)
	}
	return pkg, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPackage(row rowScanner) (*domain.Package, error) {
	var (
		pkg       domain.Package
		stored    string
		street    sql.NullString
		number    sql.NullString
		bairro    sql.NullString
		compl     sql.NullString
		cep       sql.NullString
		city      sql.NullString
		region    sql.NullString
		recipient sql.NullString
		phone     sql.NullString
		rawInput  sql.NullString
		inputType sql.NullString
		seq       sql.NullInt64
		routeID   sql.NullString
		notes     sql.NullString
		createdAt string
	)

	err := row.Scan(
		&pkg.ID, &pkg.OwnerID, &stored, &pkg.FullAddress,
		&street, &number, &bairro, &compl, &cep, &city, &region,
		&recipient, &phone, &rawInput, &inputType,
		&seq, &routeID, &notes, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	pkg.Status = domain.StatusFromStored(stored)
	pkg.Street = street.String
	pkg.Number = number.String
	pkg.Neighborhood = bairro.String
	pkg.Complement = compl.String
	pkg.PostalCode = cep.String
	pkg.City = city.String
	pkg.Region = region.String
	pkg.RecipientName = recipient.String
	pkg.Phone = phone.String
	pkg.SourceRawInput = rawInput.String
	pkg.SourceKind = domain.InputKind(inputType.String)
	pkg.DeliveryNotes = notes.String

	if seq.Valid {
		n := int(seq.Int64)
		pkg.SequenceNumber = &n
	}
	if routeID.Valid && routeID.String != "" {
		r := routeID.String
		pkg.RouteID = &r
	}

	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		pkg.CreatedAt = t
	}

	return &pkg, nil
}
