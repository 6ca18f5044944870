package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dvloznov/finanzas-demo/internal/categorizer"
	"github.com/dvloznov/finanzas-demo/internal/config"
	"github.com/dvloznov/finanzas-demo/internal/domain"
	"github.com/dvloznov/finanzas-demo/internal/infra/sqlite"
	"github.com/dvloznov/finanzas-demo/internal/llm/gemini"
	"github.com/dvloznov/finanzas-demo/internal/llm/openai"
	"github.com/dvloznov/finanzas-demo/internal/statement"
	"github.com/rs/zerolog"
)

// MockUploader is a mock implementation of Uploader for testing
type MockUploader struct {
	UploadFileFunc func(ctx context.Context, bucketName, objectName, filePath string) (string, error)
}

func (m *MockUploader) UploadFile(ctx context.Context, bucketName, objectName, filePath string) (string, error) {
	if m.UploadFileFunc != nil {
		return m.UploadFileFunc(ctx, bucketName, objectName, filePath)
	}
	return "gs://" + bucketName + "/" + objectName, nil
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data", "transacciones_sucias.csv")
	var out bytes.Buffer

	var uploaded string
	uploader := &MockUploader{
		UploadFileFunc: func(ctx context.Context, bucketName, objectName, filePath string) (string, error) {
			uploaded = filePath
			return "gs://" + bucketName + "/" + objectName, nil
		},
	}

	opts := GenerateOptions{OutPath: path, Seed: 42, Anchor: "2025-03-14", GCSBucket: "demo"}
	if err := Generate(context.Background(), opts, uploader, &out, zerolog.Nop()); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	txs, err := statement.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(txs) == 0 {
		t.Fatal("generated file is empty")
	}
	if first := txs[0].DateString(); first < "2023-09-01" {
		t.Errorf("first date %s before window start", first)
	}
	if last := txs[len(txs)-1].DateString(); last > "2025-02-28" {
		t.Errorf("last date %s after window end", last)
	}
	if uploaded != path {
		t.Errorf("uploaded %q, want %q", uploaded, path)
	}

	for _, want := range []string{"CSV generado en: " + path, "   Meses:     18", "Primeras filas:", "Subido a gs://demo/transacciones/"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestGenerate_InvalidAnchor(t *testing.T) {
	opts := GenerateOptions{OutPath: filepath.Join(t.TempDir(), "x.csv"), Anchor: "14/03/2025"}
	if err := Generate(context.Background(), opts, nil, &bytes.Buffer{}, zerolog.Nop()); err == nil {
		t.Fatal("Generate() error = nil, want error")
	}
}

func TestPrintGenerateSummary_ThousandsSeparator(t *testing.T) {
	var out bytes.Buffer
	txs, err := statement.Read(strings.NewReader("Fecha,Concepto_Bancario,Importe\n2024-01-28,NOMINA,1234.5\n2024-02-01,ALQUILER,-750\n"))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	PrintGenerateSummary(&out, "x.csv", txs)

	for _, want := range []string{"Ingresos:  1,234.50 €", "Gastos:    -750.00 €", "Balance:   484.50 €", "Meses:     2"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestNewChatModel(t *testing.T) {
	ctx := context.Background()

	m, err := NewChatModel(ctx, config.LLMConfig{Provider: config.ProviderGemini, GoogleAPIKey: "k"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewChatModel(gemini) error = %v", err)
	}
	if _, ok := m.(*gemini.Client); !ok {
		t.Errorf("NewChatModel(gemini) = %T", m)
	}

	m, err = NewChatModel(ctx, config.LLMConfig{Provider: config.ProviderOpenAI, OpenAIAPIKey: "k"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewChatModel(openai) error = %v", err)
	}
	if _, ok := m.(*openai.Client); !ok {
		t.Errorf("NewChatModel(openai) = %T", m)
	}

	if _, err := NewChatModel(ctx, config.LLMConfig{Provider: "claude"}, zerolog.Nop()); err == nil {
		t.Error("NewChatModel(unknown) error = nil, want error")
	}
}

func TestCategorize_MissingCredentialBeforeDatabase(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "finanzas.db")
	cfg := &config.Config{BatchSize: 20}
	opts := CategorizeOptions{
		InputPath: filepath.Join(dir, "in.csv"),
		DBPath:    dbPath,
		BatchSize: 20,
		Provider:  config.ProviderGemini,
	}

	err := Categorize(context.Background(), cfg, opts, strings.NewReader(""), &bytes.Buffer{}, zerolog.Nop())
	if !errors.Is(err, categorizer.ErrMissingCredential) {
		t.Fatalf("Categorize() error = %v, want ErrMissingCredential", err)
	}
	if _, statErr := os.Stat(dbPath); !os.IsNotExist(statErr) {
		t.Errorf("database file exists after credential failure")
	}
}

func seedDatabase(t *testing.T, path string) {
	t.Helper()
	ctx := context.Background()
	store, err := sqlite.Open(ctx, path, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}

	txs, err := statement.Read(strings.NewReader("Fecha,Concepto_Bancario,Importe\n" +
		"2024-01-02,MERCADONA 0001 MADRID,-40.00\n" +
		"2024-01-03,LIDL ES 0002,-12.30\n" +
		"2024-01-28,TRANSFERENCIA NOMINA EMPRESA SL 01/2024,1800.00\n"))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	txs[0].Category = domain.CategorySupermercado
	txs[1].Category = domain.CategorySupermercado
	txs[2].Category = domain.CategoryIngresos
	if err := store.InsertTransactions(ctx, txs); err != nil {
		t.Fatalf("InsertTransactions() error = %v", err)
	}
}

func TestSummary(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "finanzas.db")
	seedDatabase(t, dbPath)

	var out bytes.Buffer
	if err := Summary(context.Background(), dbPath, &out, zerolog.Nop()); err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	for _, want := range []string{"3 transacciones en", "Supermercado       2 transacciones", "Ingresos           1 transacciones"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
	if strings.Index(out.String(), "Supermercado") > strings.Index(out.String(), "Ingresos") {
		t.Errorf("distribution not ordered by count:\n%s", out.String())
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "finanzas.db")
	seedDatabase(t, dbPath)

	var out bytes.Buffer
	if err := Export(context.Background(), dbPath, "", &out, zerolog.Nop()); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "finanzas.xlsx")); err != nil {
		t.Errorf("workbook not written: %v", err)
	}
	if !strings.Contains(out.String(), "Exportadas 3 transacciones") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestUpload(t *testing.T) {
	var gotObject string
	uploader := &MockUploader{
		UploadFileFunc: func(ctx context.Context, bucketName, objectName, filePath string) (string, error) {
			gotObject = objectName
			return "gs://" + bucketName + "/" + objectName, nil
		},
	}

	var out bytes.Buffer
	if err := Upload(context.Background(), uploader, "b", "", "data/x.csv", &out, zerolog.Nop()); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if !strings.HasPrefix(gotObject, "transacciones/") || !strings.HasSuffix(gotObject, "/x.csv") {
		t.Errorf("object = %q", gotObject)
	}

	boom := errors.New("denied")
	uploader.UploadFileFunc = func(ctx context.Context, bucketName, objectName, filePath string) (string, error) {
		return "", boom
	}
	if err := Upload(context.Background(), uploader, "b", "o", "x.csv", &out, zerolog.Nop()); !errors.Is(err, boom) {
		t.Errorf("Upload() error = %v, want %v", err, boom)
	}
}
