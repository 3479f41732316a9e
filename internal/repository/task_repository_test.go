package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/solunkeprithwiraj/todo-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Task{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: email, PasswordHash: "x", IsVerified: true}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestTaskRepositoryListFilters(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewTaskRepository(db)

	alice := seedUser(t, db, "Alice", "alice@example.com")
	bob := seedUser(t, db, "Bob", "bob@example.com")

	completed := true
	tasks := []*models.Task{
		{Title: "Buy Milk", OwnerID: alice.ID},
		{Title: "walk the dog", OwnerID: alice.ID, Completed: true},
		{Title: "buy stamps", OwnerID: bob.ID},
	}
	for _, task := range tasks {
		require.NoError(t, repo.Create(task))
	}

	// Owner scope
	got, total, err := repo.List(TaskFilter{OwnerID: &alice.ID})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, got, 2)

	// Search is case-insensitive and conjunctive with the owner scope
	got, total, err = repo.List(TaskFilter{OwnerID: &alice.ID, Search: "BUY"})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "Buy Milk", got[0].Title)

	// Completion state
	got, total, err = repo.List(TaskFilter{OwnerID: &alice.ID, Completed: &completed})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "walk the dog", got[0].Title)

	// Owner is preloaded on listings
	require.Equal(t, "Alice", got[0].Owner.Name)
}

func TestTaskRepositoryListDateRange(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewTaskRepository(db)
	alice := seedUser(t, db, "Alice", "alice@example.com")

	old := &models.Task{Title: "ancient", OwnerID: alice.ID}
	require.NoError(t, repo.Create(old))
	require.NoError(t, db.Model(old).Update("created_at", time.Now().AddDate(0, 0, -30)).Error)

	recent := &models.Task{Title: "fresh", OwnerID: alice.ID}
	require.NoError(t, repo.Create(recent))

	from := time.Now().AddDate(0, 0, -7)
	to := time.Now().Add(time.Hour)
	got, total, err := repo.List(TaskFilter{OwnerID: &alice.ID, CreatedFrom: &from, CreatedTo: &to})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "fresh", got[0].Title)
}

func TestTaskRepositoryListOrdering(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewTaskRepository(db)
	alice := seedUser(t, db, "Alice", "alice@example.com")

	for _, title := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Create(&models.Task{Title: title, OwnerID: alice.ID}))
	}

	got, _, err := repo.List(TaskFilter{OwnerID: &alice.ID})
	require.NoError(t, err)
	require.Len(t, got, 3)
	// Newest first
	require.Equal(t, "third", got[0].Title)
	require.Equal(t, "first", got[2].Title)
}

func TestTaskRepositoryListPagination(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewTaskRepository(db)
	alice := seedUser(t, db, "Alice", "alice@example.com")

	for _, title := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, repo.Create(&models.Task{Title: title, OwnerID: alice.ID}))
	}

	first, total, err := repo.List(TaskFilter{OwnerID: &alice.ID, Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, int64(5), total)
	require.Len(t, first, 2)

	second, _, err := repo.List(TaskFilter{OwnerID: &alice.ID, Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, second, 2)
	require.NotEqual(t, first[0].ID, second[0].ID)
	require.NotEqual(t, first[1].ID, second[1].ID)

	last, _, err := repo.List(TaskFilter{OwnerID: &alice.ID, Page: 3, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, last, 1)
}

func TestTaskRepositorySoftDeleteAll(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewTaskRepository(db)
	alice := seedUser(t, db, "Alice", "alice@example.com")

	for _, title := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Create(&models.Task{Title: title, OwnerID: alice.ID}))
	}

	count, err := repo.SoftDeleteAll()
	require.NoError(t, err)
	require.Equal(t, int64(3), count)

	// Default listings hide the flagged rows
	_, total, err := repo.List(TaskFilter{OwnerID: &alice.ID})
	require.NoError(t, err)
	require.Equal(t, int64(0), total)

	// The moderation view still sees them
	_, total, err = repo.List(TaskFilter{OwnerID: &alice.ID, IncludeDeleted: true})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)

	// Repeat runs find nothing left to flag
	count, err = repo.SoftDeleteAll()
	require.NoError(t, err)
	require.Equal(t, int64(0), count)
}

func TestUserRepositoryTaskCounts(t *testing.T) {
	db := setupRepoTestDB(t)
	taskRepo := NewTaskRepository(db)
	userRepo := NewUserRepository(db)

	alice := seedUser(t, db, "Alice", "alice@example.com")
	bob := seedUser(t, db, "Bob", "bob@example.com")
	seedUser(t, db, "Carol", "carol@example.com")

	require.NoError(t, taskRepo.Create(&models.Task{Title: "a", OwnerID: alice.ID}))
	require.NoError(t, taskRepo.Create(&models.Task{Title: "b", OwnerID: alice.ID}))
	require.NoError(t, taskRepo.Create(&models.Task{Title: "c", OwnerID: bob.ID, IsDeleted: true}))

	rows, err := userRepo.ListWithTaskCounts(UserFilter{SortDescending: true})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "Alice", rows[0].Name)
	require.Equal(t, int64(2), rows[0].TaskCount)

	counts := make(map[string]int64)
	for _, row := range rows {
		counts[row.Name] = row.TaskCount
	}
	// Soft-deleted tasks still count here
	require.Equal(t, int64(1), counts["Bob"])
	require.Equal(t, int64(0), counts["Carol"])

	rows, err = userRepo.ListWithTaskCounts(UserFilter{MinTasks: 1})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	rows, err = userRepo.ListWithTaskCounts(UserFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
