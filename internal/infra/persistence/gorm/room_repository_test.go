package gormpersistence_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"collaborative-whiteboard/internal/domain"
	gormpersistence "collaborative-whiteboard/internal/infra/persistence/gorm"
	"collaborative-whiteboard/internal/repository"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	dialector := gormmysql.New(gormmysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock
}

func TestGormRoomRepository_Create(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := gormpersistence.NewGormRoomRepository(gormDB)

	room := &domain.Room{Name: "design", Password: "hunter2"}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `rooms`").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), room)

	assert.NoError(t, err)
	assert.Equal(t, uint(7), room.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRoomRepository_Create_DuplicateName(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := gormpersistence.NewGormRoomRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `rooms`").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'design' for key 'idx_room_name'"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &domain.Room{Name: "design", Password: "x"})

	assert.ErrorIs(t, err, repository.ErrDuplicateEntry)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRoomRepository_FindByID(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := gormpersistence.NewGormRoomRepository(gormDB)

	mock.ExpectQuery("SELECT (.+) FROM `rooms`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "password"}).
			AddRow(3, "design", "hunter2"))

	room, err := repo.FindByID(context.Background(), 3)

	assert.NoError(t, err)
	require.NotNil(t, room)
	assert.Equal(t, uint(3), room.ID)
	assert.Equal(t, "design", room.Name)
	assert.Equal(t, "hunter2", room.Password)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRoomRepository_FindByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := gormpersistence.NewGormRoomRepository(gormDB)

	mock.ExpectQuery("SELECT (.+) FROM `rooms`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "password"}))

	room, err := repo.FindByID(context.Background(), 99)

	assert.ErrorIs(t, err, repository.ErrRoomNotFound)
	assert.Nil(t, room)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRoomRepository_FindByName(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := gormpersistence.NewGormRoomRepository(gormDB)

	mock.ExpectQuery("SELECT (.+) FROM `rooms` WHERE name = (.+)").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "password"}).
			AddRow(3, "design", "hunter2"))

	room, err := repo.FindByName(context.Background(), "design")

	assert.NoError(t, err)
	require.NotNil(t, room)
	assert.Equal(t, "design", room.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRoomRepository_FindByName_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := gormpersistence.NewGormRoomRepository(gormDB)

	mock.ExpectQuery("SELECT (.+) FROM `rooms` WHERE name = (.+)").
		WillReturnError(gorm.ErrRecordNotFound)

	room, err := repo.FindByName(context.Background(), "ghost")

	assert.ErrorIs(t, err, repository.ErrRoomNotFound)
	assert.Nil(t, room)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRoomRepository_FindByName_DBError(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := gormpersistence.NewGormRoomRepository(gormDB)

	mock.ExpectQuery("SELECT (.+) FROM `rooms` WHERE name = (.+)").
		WillReturnError(assert.AnError)

	room, err := repo.FindByName(context.Background(), "design")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrRoomNotFound)
	assert.Nil(t, room)
	assert.NoError(t, mock.ExpectationsWereMet())
}
