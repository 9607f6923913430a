package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"project-sync-api/internal/domain"
)

func setupProjectTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	// Create tables for SQLite compatibility
	db.Exec(`CREATE TABLE projects (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		deleted_at DATETIME,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		settings TEXT
	)`)
	db.Exec(`CREATE TABLE project_members (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		joined_at DATETIME NOT NULL,
		UNIQUE(project_id, user_id)
	)`)
	db.Exec(`CREATE TABLE statuses (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		deleted_at DATETIME,
		project_id TEXT NOT NULL,
		name TEXT NOT NULL,
		color TEXT NOT NULL DEFAULT '#6b7280',
		unicode TEXT,
		display_order INTEGER NOT NULL DEFAULT 0
	)`)
	db.Exec(`CREATE TABLE tasks (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		deleted_at DATETIME,
		project_id TEXT NOT NULL,
		status_id TEXT NOT NULL,
		assignee_id TEXT,
		title TEXT NOT NULL,
		description TEXT,
		priority TEXT NOT NULL DEFAULT 'medium',
		display_order INTEGER NOT NULL DEFAULT 0,
		start_date DATETIME,
		due_date DATETIME,
		image_url TEXT
	)`)

	return db
}

func seedProject(t *testing.T, db *gorm.DB, ownerID uuid.UUID, name string) *domain.Project {
	t.Helper()
	project := &domain.Project{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		OwnerID:   ownerID,
		Name:      name,
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to seed project %q: %v", name, err)
	}
	return project
}

func seedMember(t *testing.T, db *gorm.DB, projectID, userID uuid.UUID) *domain.ProjectMember {
	t.Helper()
	member := &domain.ProjectMember{
		ID:        uuid.New(),
		ProjectID: projectID,
		UserID:    userID,
		JoinedAt:  time.Now(),
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to seed member: %v", err)
	}
	return member
}

func TestProjectRepository_FindMember(t *testing.T) {
	db := setupProjectTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	ownerID := uuid.New()
	project := seedProject(t, db, ownerID, "Roadmap")
	seedMember(t, db, project.ID, ownerID)

	member, err := repo.FindMember(ctx, project.ID, ownerID)
	if err != nil {
		t.Fatalf("FindMember() error = %v", err)
	}
	if member.UserID != ownerID {
		t.Errorf("FindMember() UserID = %v, want %v", member.UserID, ownerID)
	}
	if member.ProjectID != project.ID {
		t.Errorf("FindMember() ProjectID = %v, want %v", member.ProjectID, project.ID)
	}
}

func TestProjectRepository_FindMember_NotAMember(t *testing.T) {
	db := setupProjectTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	ownerID := uuid.New()
	project := seedProject(t, db, ownerID, "Roadmap")
	seedMember(t, db, project.ID, ownerID)

	_, err := repo.FindMember(ctx, project.ID, uuid.New())
	if err == nil {
		t.Fatal("FindMember() expected error for an outsider, got nil")
	}
	if err != gorm.ErrRecordNotFound {
		t.Errorf("FindMember() error = %v, want gorm.ErrRecordNotFound", err)
	}
}

func TestProjectRepository_AddMember(t *testing.T) {
	db := setupProjectTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	project := seedProject(t, db, uuid.New(), "Roadmap")
	userID := uuid.New()

	member := &domain.ProjectMember{
		ID:        uuid.New(),
		ProjectID: project.ID,
		UserID:    userID,
		JoinedAt:  time.Now(),
	}
	if err := repo.AddMember(ctx, member); err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}

	found, err := repo.FindMember(ctx, project.ID, userID)
	if err != nil {
		t.Fatalf("FindMember() after AddMember() error = %v", err)
	}
	if found.ID != member.ID {
		t.Errorf("FindMember() ID = %v, want %v", found.ID, member.ID)
	}
}

func TestProjectRepository_AddMember_DuplicateRejected(t *testing.T) {
	db := setupProjectTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	project := seedProject(t, db, uuid.New(), "Roadmap")
	userID := uuid.New()
	seedMember(t, db, project.ID, userID)

	err := repo.AddMember(ctx, &domain.ProjectMember{
		ID:        uuid.New(),
		ProjectID: project.ID,
		UserID:    userID,
		JoinedAt:  time.Now(),
	})
	if err == nil {
		t.Error("AddMember() expected error for duplicate membership, got nil")
	}
}

func TestProjectRepository_FindByMemberID(t *testing.T) {
	db := setupProjectTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	mine := seedProject(t, db, userID, "Mine")
	shared := seedProject(t, db, uuid.New(), "Shared")
	foreign := seedProject(t, db, uuid.New(), "Foreign")

	seedMember(t, db, mine.ID, userID)
	seedMember(t, db, shared.ID, userID)
	seedMember(t, db, foreign.ID, uuid.New())

	projects, err := repo.FindByMemberID(ctx, userID)
	if err != nil {
		t.Fatalf("FindByMemberID() error = %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}
	for _, p := range projects {
		if p.ID == foreign.ID {
			t.Errorf("FindByMemberID() returned a project the user does not belong to: %v", p.ID)
		}
	}
}

func TestProjectRepository_FindByIDWithBoard(t *testing.T) {
	db := setupProjectTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	ownerID := uuid.New()
	project := seedProject(t, db, ownerID, "Board")
	seedMember(t, db, project.ID, ownerID)

	// Columns and tasks inserted out of order; the board must come back sorted
	done := &domain.Status{BaseModel: domain.BaseModel{ID: uuid.New()}, ProjectID: project.ID, Name: "Done", Color: "#22c55e", Order: 1}
	todo := &domain.Status{BaseModel: domain.BaseModel{ID: uuid.New()}, ProjectID: project.ID, Name: "To Do", Color: "#6b7280", Order: 0}
	for _, s := range []*domain.Status{done, todo} {
		if err := db.Create(s).Error; err != nil {
			t.Fatalf("failed to seed status: %v", err)
		}
	}
	second := &domain.Task{BaseModel: domain.BaseModel{ID: uuid.New()}, ProjectID: project.ID, StatusID: todo.ID, Title: "second", Priority: domain.PriorityMedium, Order: 1}
	first := &domain.Task{BaseModel: domain.BaseModel{ID: uuid.New()}, ProjectID: project.ID, StatusID: todo.ID, Title: "first", Priority: domain.PriorityMedium, Order: 0}
	for _, task := range []*domain.Task{second, first} {
		if err := db.Create(task).Error; err != nil {
			t.Fatalf("failed to seed task: %v", err)
		}
	}

	found, err := repo.FindByIDWithBoard(ctx, project.ID)
	if err != nil {
		t.Fatalf("FindByIDWithBoard() error = %v", err)
	}

	if len(found.Members) != 1 {
		t.Errorf("expected 1 member, got %d", len(found.Members))
	}
	if len(found.Statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(found.Statuses))
	}
	if found.Statuses[0].Name != "To Do" || found.Statuses[1].Name != "Done" {
		t.Errorf("statuses out of order: %q, %q", found.Statuses[0].Name, found.Statuses[1].Name)
	}
	if len(found.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(found.Tasks))
	}
	if found.Tasks[0].Title != "first" || found.Tasks[1].Title != "second" {
		t.Errorf("tasks out of order: %q, %q", found.Tasks[0].Title, found.Tasks[1].Title)
	}
}

func TestProjectRepository_CountTasksAndStatuses(t *testing.T) {
	db := setupProjectTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	project := seedProject(t, db, uuid.New(), "Counted")
	status := &domain.Status{BaseModel: domain.BaseModel{ID: uuid.New()}, ProjectID: project.ID, Name: "To Do", Color: "#6b7280"}
	if err := db.Create(status).Error; err != nil {
		t.Fatalf("failed to seed status: %v", err)
	}
	for i, title := range []string{"one", "two", "three"} {
		task := &domain.Task{BaseModel: domain.BaseModel{ID: uuid.New()}, ProjectID: project.ID, StatusID: status.ID, Title: title, Priority: domain.PriorityMedium, Order: i}
		if err := db.Create(task).Error; err != nil {
			t.Fatalf("failed to seed task: %v", err)
		}
	}

	tasks, err := repo.CountTasks(ctx, project.ID)
	if err != nil {
		t.Fatalf("CountTasks() error = %v", err)
	}
	if tasks != 3 {
		t.Errorf("CountTasks() = %d, want 3", tasks)
	}

	statuses, err := repo.CountStatuses(ctx, project.ID)
	if err != nil {
		t.Fatalf("CountStatuses() error = %v", err)
	}
	if statuses != 1 {
		t.Errorf("CountStatuses() = %d, want 1", statuses)
	}
}

func TestProjectRepository_Delete(t *testing.T) {
	db := setupProjectTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	project := seedProject(t, db, uuid.New(), "Doomed")

	if err := repo.Delete(ctx, project.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var gone domain.Project
	if err := db.First(&gone, "id = ?", project.ID).Error; err == nil {
		t.Error("expected deleted project to be gone, but it was found")
	}
}
