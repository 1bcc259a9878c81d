package repository // repository defines read access to static room data

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives

	"github.com/iliyamo/igloo-rooms/internal/model"
)

// RoomRepo reads room, table and waddle definitions.  The server never
// writes these tables; they are loaded once when the process starts.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// ListRooms returns every room ordered by id.
func (r *RoomRepo) ListRooms(ctx context.Context) ([]model.RoomDefinition, error) {
	const q = `SELECT id, name, max_users, member, game, blackhole, spawn, required_item, stamp_group
	           FROM rooms
	           ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.RoomDefinition
	for rows.Next() {
		var (
			d            model.RoomDefinition
			requiredItem sql.NullInt64
			stampGroup   sql.NullInt64
		)
		if err := rows.Scan(
			&d.ID, &d.Name, &d.MaxUsers, &d.Member, &d.Game, &d.Blackhole, &d.Spawn,
			&requiredItem, &stampGroup,
		); err != nil {
			return nil, err
		}
		d.RequiredItem = nullableInt(requiredItem)
		d.StampGroup = nullableInt(stampGroup)
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, ErrNoRooms
	}
	return result, nil
}

// ListTables returns every table ordered by room then table id.
func (r *RoomRepo) ListTables(ctx context.Context) ([]model.TableDefinition, error) {
	const q = `SELECT id, room_id, game FROM room_tables ORDER BY room_id, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.TableDefinition
	for rows.Next() {
		var t model.TableDefinition
		if err := rows.Scan(&t.ID, &t.RoomID, &t.Game); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// ListWaddles returns every waddle ordered by room then waddle id.  A
// seats value below one is invalid and reported as ErrInvalidSeats.
func (r *RoomRepo) ListWaddles(ctx context.Context) ([]model.WaddleDefinition, error) {
	const q = `SELECT id, room_id, seats, game FROM room_waddles ORDER BY room_id, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.WaddleDefinition
	for rows.Next() {
		var w model.WaddleDefinition
		if err := rows.Scan(&w.ID, &w.RoomID, &w.Seats, &w.Game); err != nil {
			return nil, err
		}
		if w.Seats < 1 {
			return nil, ErrInvalidSeats
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
