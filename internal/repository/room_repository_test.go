package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *RoomRepo) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewRoomRepo(db)
}

func TestListRooms_Success(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "name", "max_users", "member", "game", "blackhole", "spawn", "required_item", "stamp_group"}).
		AddRow(100, "Town", 80, false, false, false, true, nil, nil).
		AddRow(802, "Ice Rink", 80, false, false, false, true, nil, 12).
		AddRow(900, "Astro Barrier", 80, true, true, false, false, 413, nil)

	mock.ExpectQuery(`FROM rooms`).WillReturnRows(rows)

	rooms, err := repo.ListRooms(context.Background())

	require.NoError(t, err)
	require.Len(t, rooms, 3)
	assert.Equal(t, "Town", rooms[0].Name)
	assert.True(t, rooms[0].Spawn)
	assert.Nil(t, rooms[0].RequiredItem)
	require.NotNil(t, rooms[1].StampGroup)
	assert.Equal(t, 12, *rooms[1].StampGroup)
	assert.True(t, rooms[2].Member)
	assert.True(t, rooms[2].Game)
	require.NotNil(t, rooms[2].RequiredItem)
	assert.Equal(t, 413, *rooms[2].RequiredItem)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRooms_Empty(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "name", "max_users", "member", "game", "blackhole", "spawn", "required_item", "stamp_group"})
	mock.ExpectQuery(`FROM rooms`).WillReturnRows(rows)

	_, err := repo.ListRooms(context.Background())

	assert.ErrorIs(t, err, ErrNoRooms)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRooms_QueryError(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	boom := errors.New("connection reset")
	mock.ExpectQuery(`FROM rooms`).WillReturnError(boom)

	_, err := repo.ListRooms(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTables(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "room_id", "game"}).
		AddRow(200, 220, "four").
		AddRow(201, 220, "four").
		AddRow(100, 111, "mancala")
	mock.ExpectQuery(`FROM room_tables`).WillReturnRows(rows)

	tables, err := repo.ListTables(context.Background())

	require.NoError(t, err)
	require.Len(t, tables, 3)
	assert.Equal(t, 220, tables[0].RoomID)
	assert.Equal(t, "mancala", tables[2].Game)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListWaddles(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "room_id", "seats", "game"}).
		AddRow(100, 230, 4, "sled").
		AddRow(103, 230, 2, "sled")
	mock.ExpectQuery(`FROM room_waddles`).WillReturnRows(rows)

	waddles, err := repo.ListWaddles(context.Background())

	require.NoError(t, err)
	require.Len(t, waddles, 2)
	assert.Equal(t, 4, waddles[0].Seats)
	assert.Equal(t, "sled", waddles[1].Game)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListWaddles_InvalidSeats(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "room_id", "seats", "game"}).
		AddRow(100, 230, 0, "sled")
	mock.ExpectQuery(`FROM room_waddles`).WillReturnRows(rows)

	_, err := repo.ListWaddles(context.Background())

	assert.ErrorIs(t, err, ErrInvalidSeats)
}
