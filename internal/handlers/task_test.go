package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/visorry/task-management-system/internal/middleware"
	"github.com/visorry/task-management-system/internal/models"
	"github.com/visorry/task-management-system/internal/service"
)

// =============================================================================
// Mock TaskService
// =============================================================================

type mockTaskService struct {
	createFunc  func(ctx context.Context, ownerID uuid.UUID, req service.CreateTaskRequest) (*models.Task, error)
	listFunc    func(ctx context.Context, ownerID uuid.UUID) ([]models.Task, error)
	getByIDFunc func(ctx context.Context, ownerID, taskID uuid.UUID) (*models.Task, error)
	updateFunc  func(ctx context.Context, ownerID, taskID uuid.UUID, req service.UpdateTaskRequest) (*models.Task, error)
	deleteFunc  func(ctx context.Context, ownerID, taskID uuid.UUID) error
}

func (m *mockTaskService) Create(ctx context.Context, ownerID uuid.UUID, req service.CreateTaskRequest) (*models.Task, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, ownerID, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskService) List(ctx context.Context, ownerID uuid.UUID) ([]models.Task, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, ownerID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskService) GetByID(ctx context.Context, ownerID, taskID uuid.UUID) (*models.Task, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, ownerID, taskID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskService) Update(ctx context.Context, ownerID, taskID uuid.UUID, req service.UpdateTaskRequest) (*models.Task, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, ownerID, taskID, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskService) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, ownerID, taskID)
	}
	return errors.New("not implemented")
}

// =============================================================================
// Test Helpers
// =============================================================================

func createAuthedContext(t *testing.T, method, path string, body interface{}, ownerID uuid.UUID) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()

	w, c := createTestContext(method, path, body)
	c.Set(middleware.ContextUserIDKey, ownerID)
	c.Set(middleware.ContextUsernameKey, "alice")
	return w, c
}

func setParamID(c *gin.Context, id string) {
	c.Params = gin.Params{{Key: "id", Value: id}}
}

// =============================================================================
// Create Handler Tests
// =============================================================================

func TestTaskCreateHandler_Success(t *testing.T) {
	ownerID := uuid.New()
	taskID := uuid.New()
	due := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)

	handler := NewTaskHandler(&mockTaskService{
		createFunc: func(ctx context.Context, oID uuid.UUID, req service.CreateTaskRequest) (*models.Task, error) {
			if oID != ownerID {
				t.Errorf("ownerID = %v, want %v", oID, ownerID)
			}
			return &models.Task{
				ID:          taskID,
				UserID:      oID,
				Title:       req.Title,
				Description: req.Description,
				DueDate:     req.DueDate,
				Priority:    models.PriorityMedium,
				Status:      models.StatusTodo,
			}, nil
		},
	})

	w, c := createAuthedContext(t, "POST", "/api/tasks", service.CreateTaskRequest{
		Title:       "Finish project",
		Description: "Complete the project by the end of the week",
		DueDate:     due,
	}, ownerID)
	handler.Create(c)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}

	var task models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &task); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if task.ID != taskID {
		t.Error("response must include the generated id")
	}
	if !task.DueDate.Equal(due) {
		t.Errorf("task.DueDate = %v, want %v", task.DueDate, due)
	}
}

func TestTaskCreateHandler_WireFieldNames(t *testing.T) {
	ownerID := uuid.New()
	due := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)

	handler := NewTaskHandler(&mockTaskService{
		createFunc: func(ctx context.Context, oID uuid.UUID, req service.CreateTaskRequest) (*models.Task, error) {
			if !req.DueDate.Equal(due) {
				t.Errorf("bound DueDate = %v, want %v", req.DueDate, due)
			}
			return &models.Task{
				ID:          uuid.New(),
				UserID:      oID,
				Title:       req.Title,
				Description: req.Description,
				DueDate:     req.DueDate,
				Priority:    models.PriorityMedium,
				Status:      models.StatusTodo,
			}, nil
		},
	})

	// A client speaking the documented field names gets a 201.
	w, c := createAuthedContext(t, "POST", "/api/tasks", map[string]interface{}{
		"title":       "Finish project",
		"description": "Complete the project by the end of the week",
		"dueDate":     due.Format(time.RFC3339),
	}, ownerID)
	handler.Create(c)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, http.StatusCreated, w.Body.String())
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	for _, key := range []string{"dueDate", "userId", "createdAt", "updatedAt"} {
		if _, ok := body[key]; !ok {
			t.Errorf("response missing %q field", key)
		}
	}
	for _, key := range []string{"due_date", "user_id"} {
		if _, ok := body[key]; ok {
			t.Errorf("response must not carry %q", key)
		}
	}
}

func TestTaskCreateHandler_Unauthenticated(t *testing.T) {
	handler := NewTaskHandler(&mockTaskService{})

	// No identity in the context: the gate did not run.
	w, c := createTestContext("POST", "/api/tasks", service.CreateTaskRequest{
		Title:       "t",
		Description: "d",
		DueDate:     time.Now().Add(time.Hour),
	})
	handler.Create(c)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestTaskCreateHandler_ValidationError(t *testing.T) {
	handler := NewTaskHandler(&mockTaskService{
		createFunc: func(ctx context.Context, oID uuid.UUID, req service.CreateTaskRequest) (*models.Task, error) {
			return nil, service.ErrValidation
		},
	})

	w, c := createAuthedContext(t, "POST", "/api/tasks", service.CreateTaskRequest{
		Title:       "t",
		Description: "d",
		DueDate:     time.Now().Add(-time.Hour),
	}, uuid.New())
	handler.Create(c)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
}

func TestTaskCreateHandler_MissingFields(t *testing.T) {
	handler := NewTaskHandler(&mockTaskService{
		createFunc: func(ctx context.Context, oID uuid.UUID, req service.CreateTaskRequest) (*models.Task, error) {
			t.Error("service must not be reached for a malformed payload")
			return nil, nil
		},
	})

	w, c := createAuthedContext(t, "POST", "/api/tasks", map[string]string{
		"description": "no title or due date",
	}, uuid.New())
	handler.Create(c)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// =============================================================================
// List Handler Tests
// =============================================================================

func TestTaskListHandler_Success(t *testing.T) {
	ownerID := uuid.New()
	handler := NewTaskHandler(&mockTaskService{
		listFunc: func(ctx context.Context, oID uuid.UUID) ([]models.Task, error) {
			if oID != ownerID {
				t.Errorf("ownerID = %v, want %v", oID, ownerID)
			}
			return []models.Task{
				{ID: uuid.New(), UserID: oID, Title: "a"},
				{ID: uuid.New(), UserID: oID, Title: "b"},
			}, nil
		},
	})

	w, c := createAuthedContext(t, "GET", "/api/tasks", nil, ownerID)
	handler.List(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var tasks []models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(tasks) != 2 {
		t.Errorf("list length = %d, want 2", len(tasks))
	}
}

func TestTaskListHandler_Unauthenticated(t *testing.T) {
	handler := NewTaskHandler(&mockTaskService{})

	w, c := createTestContext("GET", "/api/tasks", nil)
	handler.List(c)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

// =============================================================================
// Get Handler Tests
// =============================================================================

func TestTaskGetHandler_NotFoundAndNotOwnedAreIdentical(t *testing.T) {
	handler := NewTaskHandler(&mockTaskService{
		getByIDFunc: func(ctx context.Context, oID, tID uuid.UUID) (*models.Task, error) {
			return nil, service.ErrTaskNotFound
		},
	})

	// Absent id and someone else's id both produce the same response.
	var bodies [2]string
	for i, id := range []string{uuid.NewString(), uuid.NewString()} {
		w, c := createAuthedContext(t, "GET", "/api/tasks/"+id, nil, uuid.New())
		setParamID(c, id)
		handler.Get(c)

		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
		}
		bodies[i] = w.Body.String()
	}
	if bodies[0] != bodies[1] {
		t.Error("absent and not-owned responses must be byte-identical")
	}
}

func TestTaskGetHandler_InvalidID(t *testing.T) {
	handler := NewTaskHandler(&mockTaskService{
		getByIDFunc: func(ctx context.Context, oID, tID uuid.UUID) (*models.Task, error) {
			t.Error("service must not be reached for an unparseable id")
			return nil, nil
		},
	})

	w, c := createAuthedContext(t, "GET", "/api/tasks/not-a-uuid", nil, uuid.New())
	setParamID(c, "not-a-uuid")
	handler.Get(c)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestTaskGetHandler_Success(t *testing.T) {
	ownerID := uuid.New()
	taskID := uuid.New()
	handler := NewTaskHandler(&mockTaskService{
		getByIDFunc: func(ctx context.Context, oID, tID uuid.UUID) (*models.Task, error) {
			return &models.Task{ID: tID, UserID: oID, Title: "mine"}, nil
		},
	})

	w, c := createAuthedContext(t, "GET", "/api/tasks/"+taskID.String(), nil, ownerID)
	setParamID(c, taskID.String())
	handler.Get(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var task models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &task); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if task.ID != taskID {
		t.Errorf("task.ID = %v, want %v", task.ID, taskID)
	}
}

// =============================================================================
// Update Handler Tests
// =============================================================================

func TestTaskUpdateHandler_Success(t *testing.T) {
	ownerID := uuid.New()
	taskID := uuid.New()
	handler := NewTaskHandler(&mockTaskService{
		updateFunc: func(ctx context.Context, oID, tID uuid.UUID, req service.UpdateTaskRequest) (*models.Task, error) {
			if req.Status == nil || *req.Status != models.StatusDone {
				t.Error("update request should carry the new status")
			}
			if req.Title != nil {
				t.Error("unsent fields must be nil in the partial update")
			}
			return &models.Task{ID: tID, UserID: oID, Title: "mine", Status: models.StatusDone}, nil
		},
	})

	w, c := createAuthedContext(t, "PUT", "/api/tasks/"+taskID.String(), map[string]string{
		"status": models.StatusDone,
	}, ownerID)
	setParamID(c, taskID.String())
	handler.Update(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var task models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &task); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if task.Status != models.StatusDone {
		t.Errorf("task.Status = %s, want %s", task.Status, models.StatusDone)
	}
	if task.Title != "mine" {
		t.Error("fields not named in the update must be unchanged")
	}
}

func TestTaskUpdateHandler_NotFound(t *testing.T) {
	handler := NewTaskHandler(&mockTaskService{
		updateFunc: func(ctx context.Context, oID, tID uuid.UUID, req service.UpdateTaskRequest) (*models.Task, error) {
			return nil, service.ErrTaskNotFound
		},
	})

	id := uuid.NewString()
	w, c := createAuthedContext(t, "PUT", "/api/tasks/"+id, map[string]string{"title": "x"}, uuid.New())
	setParamID(c, id)
	handler.Update(c)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestTaskUpdateHandler_InvalidEnum(t *testing.T) {
	handler := NewTaskHandler(&mockTaskService{
		updateFunc: func(ctx context.Context, oID, tID uuid.UUID, req service.UpdateTaskRequest) (*models.Task, error) {
			return nil, service.ErrValidation
		},
	})

	id := uuid.NewString()
	w, c := createAuthedContext(t, "PUT", "/api/tasks/"+id, map[string]string{"priority": "Critical"}, uuid.New())
	setParamID(c, id)
	handler.Update(c)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
}

// =============================================================================
// Delete Handler Tests
// =============================================================================

func TestTaskDeleteHandler_Success(t *testing.T) {
	ownerID := uuid.New()
	taskID := uuid.New()
	handler := NewTaskHandler(&mockTaskService{
		deleteFunc: func(ctx context.Context, oID, tID uuid.UUID) error {
			if oID != ownerID || tID != taskID {
				t.Errorf("delete filter = (%v, %v), want (%v, %v)", oID, tID, ownerID, taskID)
			}
			return nil
		},
	})

	w, c := createAuthedContext(t, "DELETE", "/api/tasks/"+taskID.String(), nil, ownerID)
	setParamID(c, taskID.String())
	handler.Delete(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if msg := decodeMessage(t, w); msg != "Task deleted" {
		t.Errorf("message = %q, want %q", msg, "Task deleted")
	}
}

func TestTaskDeleteHandler_SecondDeleteNotFound(t *testing.T) {
	deleted := false
	handler := NewTaskHandler(&mockTaskService{
		deleteFunc: func(ctx context.Context, oID, tID uuid.UUID) error {
			if deleted {
				return service.ErrTaskNotFound
			}
			deleted = true
			return nil
		},
	})

	id := uuid.NewString()
	for i, want := range []int{http.StatusOK, http.StatusNotFound} {
		w, c := createAuthedContext(t, "DELETE", "/api/tasks/"+id, nil, uuid.New())
		setParamID(c, id)
		handler.Delete(c)

		if w.Code != want {
			t.Errorf("delete #%d status = %d, want %d", i+1, w.Code, want)
		}
	}
}
