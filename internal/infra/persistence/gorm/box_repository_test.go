package gormpersistence_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collaborative-whiteboard/internal/domain"
	gormpersistence "collaborative-whiteboard/internal/infra/persistence/gorm"
	"collaborative-whiteboard/internal/repository"
)

func TestGormBoxRepository_Create(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := gormpersistence.NewGormBoxRepository(gormDB)

	box := &domain.Box{ID: "b1", Top: 40, Left: 60, Text: "note", RoomID: 1}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `boxes`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), box)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormBoxRepository_Create_DuplicateID(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := gormpersistence.NewGormBoxRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `boxes`").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'b1' for key 'PRIMARY'"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &domain.Box{ID: "b1", RoomID: 1})

	assert.ErrorIs(t, err, repository.ErrDuplicateEntry)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormBoxRepository_FindByID(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := gormpersistence.NewGormBoxRepository(gormDB)

	mock.ExpectQuery("SELECT (.+) FROM `boxes` WHERE id = (.+)").
		WillReturnRows(sqlmock.NewRows([]string{"id", "top", "left", "text", "room_id"}).
			AddRow("b1", 40, 60, "note", 1))

	box, err := repo.FindByID(context.Background(), "b1")

	assert.NoError(t, err)
	require.NotNil(t, box)
	assert.Equal(t, "b1", box.ID)
	assert.Equal(t, 40, box.Top)
	assert.Equal(t, 60, box.Left)
	assert.Equal(t, "note", box.Text)
	assert.Equal(t, uint(1), box.RoomID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormBoxRepository_FindByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := gormpersistence.NewGormBoxRepository(gormDB)

	mock.ExpectQuery("SELECT (.+) FROM `boxes` WHERE id = (.+)").
		WillReturnRows(sqlmock.NewRows([]string{"id", "top", "left", "text", "room_id"}))

	box, err := repo.FindByID(context.Background(), "ghost")

	assert.ErrorIs(t, err, repository.ErrBoxNotFound)
	assert.Nil(t, box)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormBoxRepository_FindByRoom_OrdersByID(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := gormpersistence.NewGormBoxRepository(gormDB)

	mock.ExpectQuery("SELECT (.+) FROM `boxes` WHERE room_id = (.+) ORDER BY id ASC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "top", "left", "text", "room_id"}).
			AddRow("a", 10, 10, "first", 1).
			AddRow("b", 20, 20, "second", 1))

	boxes, err := repo.FindByRoom(context.Background(), 1)

	assert.NoError(t, err)
	require.Len(t, boxes, 2)
	assert.Equal(t, "a", boxes[0].ID)
	assert.Equal(t, "b", boxes[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormBoxRepository_FindByRoom_Empty(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := gormpersistence.NewGormBoxRepository(gormDB)

	mock.ExpectQuery("SELECT (.+) FROM `boxes` WHERE room_id = (.+)").
		WillReturnRows(sqlmock.NewRows([]string{"id", "top", "left", "text", "room_id"}))

	boxes, err := repo.FindByRoom(context.Background(), 99)

	assert.NoError(t, err)
	assert.Empty(t, boxes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormBoxRepository_Save(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := gormpersistence.NewGormBoxRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `boxes` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Save(context.Background(), &domain.Box{ID: "b1", Top: 5, Left: 5, Text: "moved", RoomID: 1})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormBoxRepository_Delete(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := gormpersistence.NewGormBoxRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `boxes` WHERE id = (.+)").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), "b1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormBoxRepository_Delete_DBError(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := gormpersistence.NewGormBoxRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `boxes`").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), "b1")

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
