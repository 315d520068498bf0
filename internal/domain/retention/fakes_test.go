package retention

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mpadmin/internal/domain/core"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*core.User

	// failWhen lets a test fail exactly one kind of update, keyed off the
	// field set being written.
	failWhen func(fields map[string]any) error
}

func newFakeUserStore(users ...*core.User) *fakeUserStore {
	s := &fakeUserStore{users: map[string]*core.User{}}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Get(_ context.Context, userID string) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *fakeUserStore) Update(_ context.Context, userID string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWhen != nil {
		if err := s.failWhen(fields); err != nil {
			return err
		}
	}
	u, ok := s.users[userID]
	if !ok {
		return core.ErrUserNotFound
	}
	for name, value := range fields {
		if err := setUserField(u, name, value); err != nil {
			return err
		}
	}
	return nil
}

func setUserField(u *core.User, name string, value any) error {
	switch name {
	case "email":
		u.Email = value.(string)
	case "first_name":
		u.FirstName = value.(string)
	case "last_name":
		u.LastName = value.(string)
	case "phone":
		u.Phone = optString(value)
	case "avatar_url":
		u.AvatarURL = optString(value)
	case "status":
		u.Status = value.(string)
	case "deleted_at":
		u.DeletedAt = optTime(value)
	case "deletion_reason":
		u.DeletionReason = optString(value)
	case "anonymization_level":
		u.AnonymizationLevel = optString(value)
	case "anonymized_at":
		u.AnonymizedAt = optTime(value)
	case "preserved_data_until":
		u.PreservedDataUntil = optTime(value)
	case "scheduled_purge_at":
		u.ScheduledPurgeAt = optTime(value)
	case "anonymous_id":
		u.AnonymousID = optString(value)
	default:
		return fmt.Errorf("unexpected field %q", name)
	}
	return nil
}

func optString(value any) *string {
	if value == nil {
		return nil
	}
	s := value.(string)
	return &s
}

func optTime(value any) *time.Time {
	if value == nil {
		return nil
	}
	t := value.(time.Time)
	return &t
}

type tagCall struct {
	Collection  string
	UserID      string
	AnonymousID string
}

type fakeRecordStore struct {
	mu      sync.Mutex
	tags    []tagCall
	deletes []tagCall

	failCollections map[string]error
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{failCollections: map[string]error{}}
}

func (s *fakeRecordStore) TagByUser(_ context.Context, collection, userID, anonymousID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failCollections[collection]; err != nil {
		return err
	}
	s.tags = append(s.tags, tagCall{Collection: collection, UserID: userID, AnonymousID: anonymousID})
	return nil
}

func (s *fakeRecordStore) DeleteByUser(_ context.Context, collection, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failCollections[collection]; err != nil {
		return 0, err
	}
	s.deletes = append(s.deletes, tagCall{Collection: collection, UserID: userID})
	return 1, nil
}

type fakeTaskStore struct {
	mu    sync.Mutex
	tasks []PurgeTask
	next  int

	scheduleErr error
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{}
}

func (s *fakeTaskStore) Schedule(_ context.Context, userID, scope string, scheduledFor time.Time, policyName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scheduleErr != nil {
		return "", s.scheduleErr
	}
	s.next++
	task := PurgeTask{
		ID:           fmt.Sprintf("task-%d", s.next),
		UserID:       userID,
		Scope:        scope,
		ScheduledFor: scheduledFor,
		PolicyName:   policyName,
		Status:       TaskStatusPending,
	}
	s.tasks = append(s.tasks, task)
	return task.ID, nil
}

func (s *fakeTaskStore) CancelPending(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for i := range s.tasks {
		if s.tasks[i].UserID == userID && s.tasks[i].Status == TaskStatusPending {
			s.tasks[i].Status = TaskStatusCancelled
			count++
		}
	}
	return count, nil
}

func (s *fakeTaskStore) ListPending(_ context.Context, now time.Time) ([]PurgeTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []PurgeTask
	for _, t := range s.tasks {
		if t.Status == TaskStatusPending && !t.ScheduledFor.After(now) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *fakeTaskStore) Complete(_ context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == taskID && s.tasks[i].Status == TaskStatusPending {
			s.tasks[i].Status = TaskStatusDone
		}
	}
	return nil
}

func (s *fakeTaskStore) pendingFor(userID string) []PurgeTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []PurgeTask
	for _, t := range s.tasks {
		if t.UserID == userID && t.Status == TaskStatusPending {
			out = append(out, t)
		}
	}
	return out
}

type auditCall struct {
	ActorID  string
	Action   string
	EntityID string
}

type fakeAuditSink struct {
	mu    sync.Mutex
	calls []auditCall
}

func (s *fakeAuditSink) Record(_ context.Context, actorID, action, _, entityID string, _ any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, auditCall{ActorID: actorID, Action: action, EntityID: entityID})
	return nil
}

func (s *fakeAuditSink) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.calls))
	for _, c := range s.calls {
		out = append(out, c.Action)
	}
	return out
}

func activeUser(id string) *core.User {
	phone := "+49 170 0000000"
	avatar := "https://cdn.example.com/avatars/" + id + ".png"
	return &core.User{
		ID:        id,
		Email:     id + "@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Phone:     &phone,
		AvatarURL: &avatar,
		Role:      core.UserRoleCustomer,
		Status:    core.UserStatusActive,
		CreatedAt: time.Now().Add(-24 * time.Hour),
	}
}

func testDefaults() Defaults {
	return Defaults{BusinessDataDays: 1095, AuditDataDays: 2555, RetractionDays: 30}
}

func newTestService(users *fakeUserStore, records *fakeRecordStore, tasks *fakeTaskStore, sink *fakeAuditSink) *Service {
	var audit AuditSink
	if sink != nil {
		audit = sink
	}
	return NewService(users, records, tasks, NewResolver(testDefaults()), audit)
}
