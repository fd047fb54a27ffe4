package testutil

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFile writes content to dir/name and returns the full path
func WriteFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

// WriteCSV writes header plus rows as a CSV file under dir and returns its path
func WriteCSV(t *testing.T, dir, name string, header []string, rows ...[]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := csv.NewWriter(f)
	require.NoError(t, w.Write(header))
	require.NoError(t, w.WriteAll(rows))
	return path
}

// QACSV returns a question/answer CSV with n generated rows
func QACSV(t *testing.T, dir, name string, n int) string {
	t.Helper()

	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, []string{
			fmt.Sprintf("Lãi suất tiết kiệm kỳ hạn %d tháng là bao nhiêu?", i+1),
			"Vui lòng xem bảng lãi suất tại quầy giao dịch.",
		})
	}
	return WriteCSV(t, dir, name, []string{"question", "answer"}, rows...)
}
