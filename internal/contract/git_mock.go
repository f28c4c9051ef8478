package contract

import (
	"context"

	"github.com/huangsam/repometrics/schema"
	"github.com/stretchr/testify/mock"
)

// MockGitClient is a mock type for the GitClient type.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	mockArgs := []any{ctx, repoPath}
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetRepoHash implements the GitClient interface.
func (m *MockGitClient) GetRepoHash(ctx context.Context, repoPath string) (string, error) {
	ret := m.Called(ctx, repoPath)
	return ret.String(0), ret.Error(1)
}

// GetRepoRoot implements the GitClient interface.
func (m *MockGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	ret := m.Called(ctx, contextPath)
	root, _ := ret.Get(0).(string)
	return root, ret.Error(1)
}

// Clone implements the GitClient interface.
func (m *MockGitClient) Clone(ctx context.Context, url, branch, dir string) error {
	return m.Called(ctx, url, branch, dir).Error(0)
}

// Update implements the GitClient interface.
func (m *MockGitClient) Update(ctx context.Context, dir, branch string) error {
	return m.Called(ctx, dir, branch).Error(0)
}

// ListCommits implements the GitClient interface.
func (m *MockGitClient) ListCommits(ctx context.Context, repoPath string, limit int) ([]schema.Commit, error) {
	ret := m.Called(ctx, repoPath, limit)
	commits, _ := ret.Get(0).([]schema.Commit)
	return commits, ret.Error(1)
}

// AddWorktree implements the GitClient interface.
func (m *MockGitClient) AddWorktree(ctx context.Context, repoPath, dir, hash string) error {
	return m.Called(ctx, repoPath, dir, hash).Error(0)
}

// RemoveWorktree implements the GitClient interface.
func (m *MockGitClient) RemoveWorktree(ctx context.Context, repoPath, dir string) error {
	return m.Called(ctx, repoPath, dir).Error(0)
}

// MockInstaller is a mock type for the Installer type.
type MockInstaller struct {
	mock.Mock
}

var _ Installer = &MockInstaller{} // Compile-time check

// Install implements the Installer interface.
func (m *MockInstaller) Install(ctx context.Context, dir string) error {
	return m.Called(ctx, dir).Error(0)
}
