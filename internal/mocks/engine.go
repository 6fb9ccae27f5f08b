package mocks

import (
	"github.com/brettbedarf/nsim/namespace"
	"github.com/stretchr/testify/mock"
)

// MockEngine implements the namespace engine surfaces consumed by the shell
// and the FUSE view, for testing across packages
type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) CreateFile(parentPath, name string) error {
	return m.Called(parentPath, name).Error(0)
}

func (m *MockEngine) DeleteFile(filePath string) error {
	return m.Called(filePath).Error(0)
}

func (m *MockEngine) RenameFile(oldPath, newPath string) error {
	return m.Called(oldPath, newPath).Error(0)
}

func (m *MockEngine) CopyFile(srcPath, destDirPath string) error {
	return m.Called(srcPath, destDirPath).Error(0)
}

func (m *MockEngine) CreateDirectory(parentPath, name string) error {
	return m.Called(parentPath, name).Error(0)
}

func (m *MockEngine) DeleteDirectory(dirPath string) error {
	return m.Called(dirPath).Error(0)
}

func (m *MockEngine) RenameDirectory(oldPath, newPath string) error {
	return m.Called(oldPath, newPath).Error(0)
}

func (m *MockEngine) ListDirectory(path string) ([]string, error) {
	args := m.Called(path)

	// Handle nil returns
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockEngine) JournalEntries() []string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func (m *MockEngine) Stat(ino uint64) (namespace.NodeInfo, error) {
	args := m.Called(ino)
	return args.Get(0).(namespace.NodeInfo), args.Error(1)
}

func (m *MockEngine) ReadDir(ino uint64) ([]namespace.NodeInfo, error) {
	args := m.Called(ino)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]namespace.NodeInfo), args.Error(1)
}

func (m *MockEngine) LookupChild(ino uint64, name string) (namespace.NodeInfo, error) {
	args := m.Called(ino, name)
	return args.Get(0).(namespace.NodeInfo), args.Error(1)
}
