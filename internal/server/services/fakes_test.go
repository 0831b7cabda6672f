package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/todolists/internal/common"
	"github.com/dmitrijs2005/todolists/internal/dbx"
	"github.com/dmitrijs2005/todolists/internal/server/auth"
	"github.com/dmitrijs2005/todolists/internal/server/config"
	"github.com/dmitrijs2005/todolists/internal/server/forms"
	"github.com/dmitrijs2005/todolists/internal/server/models"
	"github.com/dmitrijs2005/todolists/internal/server/repositories/lists"
	"github.com/dmitrijs2005/todolists/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/todolists/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memStore is an in-memory stand-in for the database that keeps the
// uniqueness and cascade rules of the real schema.
type memStore struct {
	users map[string]*models.User
	lists map[string]*models.List
	tasks map[string]*models.Task
	seq   int

	errOn map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		users: map[string]*models.User{},
		lists: map[string]*models.List{},
		tasks: map[string]*models.Task{},
		errOn: map[string]error{},
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

type fakeRepoManager struct{ st *memStore }

func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (f *fakeRepoManager) Users(dbx.DBTX) users.Repository            { return memUsers{f.st} }
func (f *fakeRepoManager) Lists(dbx.DBTX) lists.Repository            { return memLists{f.st} }
func (f *fakeRepoManager) Tasks(dbx.DBTX) tasks.Repository            { return memTasks{f.st} }

type memUsers struct{ st *memStore }

func (r memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	if err := r.st.errOn["users.create"]; err != nil {
		return nil, err
	}
	for _, x := range r.st.users {
		if x.UserName == u.UserName {
			return nil, common.ErrUsernameTaken
		}
	}
	c := *u
	c.ID = r.st.nextID("u")
	c.CreatedAt = time.Now()
	r.st.users[c.ID] = &c
	out := c
	return &out, nil
}

func (r memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := r.st.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *u
	return &c, nil
}

func (r memUsers) GetByUsername(_ context.Context, name string) (*models.User, error) {
	if err := r.st.errOn["users.get"]; err != nil {
		return nil, err
	}
	for _, u := range r.st.users {
		if u.UserName == name {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memUsers) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := r.st.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = hash
	u.SessionVersion++
	return nil
}

func (r memUsers) RevokeSessions(_ context.Context, id string) error {
	u, ok := r.st.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.SessionVersion++
	return nil
}

func (r memUsers) RecordLogin(_ context.Context, id string, at time.Time) error {
	u, ok := r.st.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.LastLogin = &at
	return nil
}

func (r memUsers) Delete(_ context.Context, id string) error {
	if _, ok := r.st.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.st.users, id)
	for lid, l := range r.st.lists {
		if l.OwnerID == id {
			delete(r.st.lists, lid)
		}
	}
	for tid, t := range r.st.tasks {
		if t.OwnerID == id {
			delete(r.st.tasks, tid)
		}
	}
	return nil
}

type memLists struct{ st *memStore }

func (r memLists) titleTaken(owner, title, except string) bool {
	for _, l := range r.st.lists {
		if l.OwnerID == owner && l.Title == title && l.ID != except {
			return true
		}
	}
	return false
}

func (r memLists) Create(_ context.Context, l *models.List) (*models.List, error) {
	if r.titleTaken(l.OwnerID, l.Title, "") {
		return nil, common.ErrTitleInUse
	}
	l.ID = r.st.nextID("l")
	c := *l
	r.st.lists[l.ID] = &c
	return l, nil
}

func (r memLists) GetByID(_ context.Context, id string) (*models.List, error) {
	l, ok := r.st.lists[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *l
	return &c, nil
}

func (r memLists) ListByOwner(_ context.Context, owner string) ([]*models.List, error) {
	if err := r.st.errOn["lists.byowner"]; err != nil {
		return nil, err
	}
	var out []*models.List
	for _, l := range r.st.lists {
		if l.OwnerID == owner {
			c := *l
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r memLists) Update(_ context.Context, l *models.List) error {
	cur, ok := r.st.lists[l.ID]
	if !ok {
		return common.ErrorNotFound
	}
	if r.titleTaken(cur.OwnerID, l.Title, l.ID) {
		return common.ErrTitleInUse
	}
	c := *l
	r.st.lists[l.ID] = &c
	return nil
}

func (r memLists) Touch(_ context.Context, id string, at time.Time) error {
	if err := r.st.errOn["lists.touch"]; err != nil {
		return err
	}
	l, ok := r.st.lists[id]
	if !ok {
		return common.ErrorNotFound
	}
	l.UpdatedAt = at
	return nil
}

func (r memLists) Delete(_ context.Context, id string) error {
	if _, ok := r.st.lists[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.st.lists, id)
	for tid, t := range r.st.tasks {
		if t.ListID == id {
			delete(r.st.tasks, tid)
		}
	}
	return nil
}

type memTasks struct{ st *memStore }

func (r memTasks) titleTaken(owner, title, except string) bool {
	for _, t := range r.st.tasks {
		if t.OwnerID == owner && t.Title == title && t.ID != except {
			return true
		}
	}
	return false
}

func (r memTasks) Create(_ context.Context, t *models.Task) (*models.Task, error) {
	if r.titleTaken(t.OwnerID, t.Title, "") {
		return nil, common.ErrTitleInUse
	}
	t.ID = r.st.nextID("t")
	c := *t
	r.st.tasks[t.ID] = &c
	return t, nil
}

func (r memTasks) GetByID(_ context.Context, id string) (*models.Task, error) {
	t, ok := r.st.tasks[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *t
	return &c, nil
}

func (r memTasks) ListByList(_ context.Context, listID string) ([]*models.Task, error) {
	var out []*models.Task
	for _, t := range r.st.tasks {
		if t.ListID == listID {
			c := *t
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r memTasks) Update(_ context.Context, t *models.Task) error {
	if _, ok := r.st.tasks[t.ID]; !ok {
		return common.ErrorNotFound
	}
	if r.titleTaken(t.OwnerID, t.Title, t.ID) {
		return common.ErrTitleInUse
	}
	c := *t
	r.st.tasks[t.ID] = &c
	return nil
}

func (r memTasks) Delete(_ context.Context, id string) error {
	if _, ok := r.st.tasks[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.st.tasks, id)
	return nil
}

// newSQLMockDB backs dbx.WithTx; every transaction a test triggers must be
// declared with expectTx.
func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func expectTx(mock sqlmock.Sqlmock, commit bool) {
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	st    *memStore
	mock  sqlmock.Sqlmock
	users *UserService
	lists *ListService
	tasks *TaskService
	clock time.Time
}

// setClock moves every service's notion of now.
func (e *testEnv) setClock(t time.Time) {
	e.clock = t
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, mock := newSQLMockDB(t)
	st := newMemStore()
	rm := &fakeRepoManager{st: st}

	e := &testEnv{st: st, mock: mock, clock: testNow}
	now := func() time.Time { return e.clock }

	e.users = NewUserService(db, rm, &config.Config{SecretKey: "k", SessionTimeout: time.Hour})
	e.users.hasher = auth.NewPasswordHasherWithCost(bcrypt.MinCost)
	e.users.now = now

	e.lists = NewListService(db, rm)
	e.lists.now = now

	e.tasks = NewTaskService(db, rm, e.lists)
	e.tasks.now = now
	return e
}

func (e *testEnv) mustRegister(t *testing.T, name string) *models.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), forms.RegisterInput{
		Username: name, Email: name + "@example.com", Password: "pw-" + name, PasswordRepeat: "pw-" + name,
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) mustList(t *testing.T, owner, title string) *models.List {
	t.Helper()
	l, err := e.lists.Create(context.Background(), owner, forms.ListInput{Title: title, Description: "about " + title})
	require.NoError(t, err)
	return l
}

func taskInput(title string, dueOffset int) forms.TaskInput {
	return forms.TaskInput{
		Title:       title,
		Description: "details",
		DueDate:     testNow.AddDate(0, 0, dueOffset).Format(forms.DateLayout),
		Priority:    "medium",
	}
}
