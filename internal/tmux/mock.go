package tmux

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockClient is a mock implementation of TmuxClient for testing.
// It uses testify/mock to provide flexible behavior configuration and
// method call tracking for assertions.
//
// Example usage:
//
//	mockClient := new(MockClient)
//	mockClient.On("ListClients").Return([]Client{{Name: "/dev/pts/1", Width: 200, Height: 50}}, nil)
//
//	clients, err := mockClient.ListClients()
//	assert.NoError(t, err)
//	mockClient.AssertCalled(t, "ListClients")
type MockClient struct {
	mock.Mock
}

var _ TmuxClient = (*MockClient)(nil)

func (m *MockClient) Version() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockClient) HasSession() (bool, error) {
	args := m.Called()
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) HasNamedSession(name string) (bool, error) {
	args := m.Called(name)
	return args.Bool(0), args.Error(1)
}

// NewDetachedSession records the command as a []string.
//
//	mock.On("NewDetachedSession", "_quicktask", "panel", env, []string{"/bin/qt", "panel"}).Return(nil)
func (m *MockClient) NewDetachedSession(name, window string, env map[string]string, command ...string) error {
	args := m.Called(name, window, env, command)
	return args.Error(0)
}

func (m *MockClient) KillSession(name string) error {
	args := m.Called(name)
	return args.Error(0)
}

func (m *MockClient) ListSessions() (map[string]string, error) {
	args := m.Called()
	sessions, _ := args.Get(0).(map[string]string)
	return sessions, args.Error(1)
}

func (m *MockClient) ListClients() ([]Client, error) {
	args := m.Called()
	clients, _ := args.Get(0).([]Client)
	return clients, args.Error(1)
}

func (m *MockClient) ValidatePaneExists(sessionID, windowID, paneID string) (bool, error) {
	args := m.Called(sessionID, windowID, paneID)
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) SelectPane(windowID, paneID string) error {
	args := m.Called(windowID, paneID)
	return args.Error(0)
}

func (m *MockClient) SwitchClient(client, target string) error {
	args := m.Called(client, target)
	return args.Error(0)
}

func (m *MockClient) SetEnvironment(name, value string) error {
	args := m.Called(name, value)
	return args.Error(0)
}

func (m *MockClient) GetEnvironment(name string) (string, error) {
	args := m.Called(name)
	return args.String(0), args.Error(1)
}

func (m *MockClient) SetSessionEnvironment(session, name, value string) error {
	args := m.Called(session, name, value)
	return args.Error(0)
}

func (m *MockClient) GetSessionEnvironment(session, name string) (string, error) {
	args := m.Called(session, name)
	return args.String(0), args.Error(1)
}

func (m *MockClient) SetGlobalOption(name, value string) error {
	args := m.Called(name, value)
	return args.Error(0)
}

func (m *MockClient) UnsetGlobalOption(name string) error {
	args := m.Called(name)
	return args.Error(0)
}

func (m *MockClient) RefreshStatus(client string) error {
	args := m.Called(client)
	return args.Error(0)
}

// BindKey records the command as a []string.
//
//	mock.On("BindKey", "root", "M-Space", []string{"run-shell", "-b", "qt toggle"}).Return(nil)
func (m *MockClient) BindKey(table, key string, command ...string) error {
	args := m.Called(table, key, command)
	return args.Error(0)
}

func (m *MockClient) UnbindKey(table, key string) error {
	args := m.Called(table, key)
	return args.Error(0)
}

func (m *MockClient) ListKeys(table, key string) (string, error) {
	args := m.Called(table, key)
	return args.String(0), args.Error(1)
}

func (m *MockClient) SourceFile(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

// Run returns mocked stdout, stderr, and error for a tmux command.
//
//	mock.On("Run", []string{"list-sessions"}).Return("", "", nil)
func (m *MockClient) Run(args ...string) (string, string, error) {
	callArgs := m.Called(args)
	return callArgs.String(0), callArgs.String(1), callArgs.Error(2)
}

// RunBlocking is usually configured with RunFn or WaitUntil to simulate a
// popup staying open.
//
//	mock.On("RunBlocking", mock.Anything, mock.Anything).Return(nil)
func (m *MockClient) RunBlocking(ctx context.Context, args ...string) error {
	callArgs := m.Called(ctx, args)
	return callArgs.Error(0)
}
