package dataset

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/pillar-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type mockObjects struct {
	mock.Mock
}

func (m *mockObjects) GetObject(ctx context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.GetObjectOutput)
	return out, args.Error(1)
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_LoadCSV(t *testing.T) {
	tests := []struct {
		name    string
		content string
		columns []string
		rows    int
		check   func(t *testing.T, ds *domain.Dataset)
	}{
		{
			name:    "plain",
			content: "Jurisdiction,Revenue,Tax\nIL,\"1,000\",120\nUS,2000,\n",
			columns: []string{"Jurisdiction", "Revenue", "Tax"},
			rows:    2,
			check: func(t *testing.T, ds *domain.Dataset) {
				assert.Equal(t, 1000.0, ds.Rows[0]["Revenue"].Number)
				assert.True(t, ds.Rows[1]["Tax"].IsEmpty())
			},
		},
		{
			name:    "ragged rows are padded",
			content: "Revenue,Expenses,Tax\n100\n200,50,10\n",
			columns: []string{"Revenue", "Expenses", "Tax"},
			rows:    2,
			check: func(t *testing.T, ds *domain.Dataset) {
				assert.True(t, ds.Rows[0]["Expenses"].IsEmpty())
				assert.True(t, ds.Rows[0]["Tax"].IsEmpty())
			},
		},
		{
			name:    "blank and duplicate headers",
			content: "Revenue,,Revenue\n1,2,3\n",
			columns: []string{"Revenue", "column_2", "Revenue_2"},
			rows:    1,
			check: func(t *testing.T, ds *domain.Dataset) {
				assert.Equal(t, 3.0, ds.Rows[0]["Revenue_2"].Number)
			},
		},
		{
			name:    "byte order mark and blank lines",
			content: "\ufeffRevenue,Tax\n\n,\n100,10\n",
			columns: []string{"Revenue", "Tax"},
			rows:    1,
		},
		{
			name:    "hebrew headers",
			content: "מדינה,הכנסות,מס\nישראל,500,50\n",
			columns: []string{"מדינה", "הכנסות", "מס"},
			rows:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, "data.csv", tt.content)

			ds, err := NewLoader(nil).Load(context.Background(), path)

			require.NoError(t, err)
			assert.Equal(t, path, ds.Source)
			assert.Equal(t, tt.columns, ds.Columns)
			assert.Len(t, ds.Rows, tt.rows)
			if tt.check != nil {
				tt.check(t, ds)
			}
		})
	}
}

func TestLoader_LoadWorkbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Jurisdiction", "GloBE Income", "Covered Taxes"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"IL", 1000, 150}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"CY", 400, 0}))

	path := filepath.Join(t.TempDir(), "pillar.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	ds, err := NewLoader(nil).Load(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, []string{"Jurisdiction", "GloBE Income", "Covered Taxes"}, ds.Columns)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, "IL", ds.Rows[0]["Jurisdiction"].Raw)
	assert.Equal(t, 1000.0, ds.Rows[0]["GloBE Income"].Number)
	assert.Equal(t, 0.0, ds.Rows[1]["Covered Taxes"].Number)
}

func TestLoader_Errors(t *testing.T) {
	t.Run("empty file", func(t *testing.T) {
		path := writeTemp(t, "empty.csv", "")

		_, err := NewLoader(nil).Load(context.Background(), path)

		require.Error(t, err)
		assert.True(t, domain.IsInvalidDataset(err))
	})

	t.Run("unsupported format", func(t *testing.T) {
		path := writeTemp(t, "data.json", "{}")

		_, err := NewLoader(nil).Load(context.Background(), path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported dataset format")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewLoader(nil).Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
		assert.Error(t, err)
	})

	t.Run("corrupt workbook", func(t *testing.T) {
		_, err := NewLoader(nil).LoadReader(context.Background(), "data.xlsx", strings.NewReader("not a zip"))
		assert.Error(t, err)
	})

	t.Run("s3 without client", func(t *testing.T) {
		_, err := NewLoader(nil).Load(context.Background(), "s3://reports/q1.csv")
		assert.Error(t, err)
	})
}

func TestLoader_LoadObject(t *testing.T) {
	t.Run("fetches and parses by extension", func(t *testing.T) {
		objects := &mockObjects{}
		objects.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
			return *in.Bucket == "reports" && *in.Key == "2024/q1.csv"
		})).Return(&s3.GetObjectOutput{
			Body: io.NopCloser(strings.NewReader("Revenue,Tax\n100,10\n")),
		}, nil)

		ds, err := NewLoader(objects).Load(context.Background(), "s3://reports/2024/q1.csv")

		require.NoError(t, err)
		assert.Equal(t, "s3://reports/2024/q1.csv", ds.Source)
		assert.Len(t, ds.Rows, 1)
		objects.AssertExpectations(t)
	})

	t.Run("client error", func(t *testing.T) {
		boom := errors.New("access denied")
		objects := &mockObjects{}
		objects.On("GetObject", mock.Anything, mock.Anything).Return(nil, boom)

		_, err := NewLoader(objects).Load(context.Background(), "s3://reports/q1.csv")

		assert.ErrorIs(t, err, boom)
	})

	t.Run("invalid url", func(t *testing.T) {
		objects := &mockObjects{}

		_, err := NewLoader(objects).Load(context.Background(), "s3://reports")

		assert.Error(t, err)
		objects.AssertNotCalled(t, "GetObject", mock.Anything, mock.Anything)
	})
}
