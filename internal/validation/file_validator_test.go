package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/brent-soan/CSADPRG/internal/errors"
)

func TestFileValidator_ValidateSourceFile(t *testing.T) {
	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
		wantType  apperrors.ErrorType
	}{
		{
			name: "csv file",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "projects.csv")
				require.NoError(t, os.WriteFile(path, []byte("a,b\n"), 0644))
				return path
			},
		},
		{
			name: "xlsx extension is case insensitive",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "projects.XLSX")
				require.NoError(t, os.WriteFile(path, []byte("PK"), 0644))
				return path
			},
		},
		{
			name: "missing file",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing.csv")
			},
			wantType: apperrors.ErrTypeNotFound,
		},
		{
			name: "directory",
			setupFunc: func(t *testing.T) string {
				dir := filepath.Join(t.TempDir(), "data.csv")
				require.NoError(t, os.Mkdir(dir, 0755))
				return dir
			},
			wantType: apperrors.ErrTypeValidation,
		},
		{
			name: "unsupported extension",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "projects.json")
				require.NoError(t, os.WriteFile(path, []byte("[]"), 0644))
				return path
			},
			wantType: apperrors.ErrTypeValidation,
		},
		{
			name: "spreadsheet lock file",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "~$projects.xlsx")
				require.NoError(t, os.WriteFile(path, []byte("lock"), 0644))
				return path
			},
			wantType: apperrors.ErrTypeValidation,
		},
	}

	v := NewFileValidator(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateSourceFile(tt.setupFunc(t))
			if tt.wantType == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, tt.wantType), "got %v", err)
		})
	}
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	v := NewFileValidator(nil)

	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "output")
		require.NoError(t, v.ValidateOutputDirectory(dir))
		assert.DirExists(t, dir)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries, "write probe is removed")
	})

	t.Run("path is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "blocked")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

		err := v.ValidateOutputDirectory(file)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeExport))
	})
}
