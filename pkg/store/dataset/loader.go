package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/pillar-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

const s3Scheme = "s3://"

// ObjectGetter is the part of the S3 client used to fetch datasets.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Loader turns a file path, an s3://bucket/key URL or an uploaded stream into a dataset
type Loader interface {
	Load(ctx context.Context, source string) (*domain.Dataset, error)
	LoadReader(ctx context.Context, name string, r io.Reader) (*domain.Dataset, error)
}

type loader struct {
	objects ObjectGetter
}

// NewLoader creates a loader. A nil objects client disables s3:// sources.
func NewLoader(objects ObjectGetter) Loader {
	return &loader{objects: objects}
}

func (l *loader) Load(ctx context.Context, source string) (*domain.Dataset, error) {
	if strings.HasPrefix(source, s3Scheme) {
		return l.loadObject(ctx, source)
	}

	file, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file %s: %w", source, err)
	}
	defer file.Close()

	return l.LoadReader(ctx, source, file)
}

func (l *loader) loadObject(ctx context.Context, source string) (*domain.Dataset, error) {
	if l.objects == nil {
		return nil, fmt.Errorf("s3 sources are not configured: %s", source)
	}
	bucket, key, err := parseObjectURL(source)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().Str("bucket", bucket).Str("key", key).Msg("fetching dataset object")

	out, err := l.objects.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset object %s: %w", source, err)
	}
	defer out.Body.Close()

	return l.LoadReader(ctx, source, out.Body)
}

func (l *loader) LoadReader(ctx context.Context, name string, r io.Reader) (*domain.Dataset, error) {
	var (
		rows [][]string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".csv", ".txt":
		rows, err = readCSV(r)
	case ".xlsx", ".xlsm":
		rows, err = readWorkbook(r)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q: %s", ext, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", name, err)
	}

	rows = dropBlankRows(rows)
	if len(rows) == 0 {
		return nil, &domain.InvalidDatasetError{Source: name, Reason: "file is empty"}
	}

	header := normalizeHeader(rows[0])
	ds := domain.NewDataset(name, header, rows[1:])

	zerolog.Ctx(ctx).Debug().
		Str("source", name).
		Int("rows", len(ds.Rows)).
		Strs("columns", ds.Columns).
		Msg("dataset loaded")
	return ds, nil
}

// parseObjectURL splits s3://bucket/key.
func parseObjectURL(source string) (string, string, error) {
	bucket, key, ok := strings.Cut(strings.TrimPrefix(source, s3Scheme), "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 url %q: expected s3://bucket/key", source)
	}
	return bucket, key, nil
}

func dropBlankRows(rows [][]string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// normalizeHeader names blank header cells column_N and suffixes duplicates with _2, _3, ...
func normalizeHeader(raw []string) []string {
	header := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, cell := range raw {
		name := strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff"))
		if name == "" {
			name = "column_" + strconv.Itoa(i+1)
		}
		seen[name]++
		if n := seen[name]; n > 1 {
			name = name + "_" + strconv.Itoa(n)
		}
		header[i] = name
	}
	return header
}
