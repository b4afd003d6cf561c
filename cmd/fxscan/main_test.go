package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

const (
	goodFASTQ    = "@r1\nACGT\n+\nIIII\n@r2\nGGCC\n+\nIIII\n"
	corruptFASTQ = "@r1\nAC\n+\nII\n@r2\nACGT\n+\nIIIIII\n"
)

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write test file: %v", err)
	}
	return path
}

func writeGzipFile(t *testing.T, path string, data []byte) {
	t.Helper()

	var gzData bytes.Buffer
	gz := gzip.NewWriter(&gzData)
	if _, err := gz.Write(data); err != nil {
		t.Fatalf("write gzip payload: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip writer: %v", err)
	}
	if err := os.WriteFile(path, gzData.Bytes(), 0o600); err != nil {
		t.Fatalf("write gzip file: %v", err)
	}
}

func runCLI(args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func assertContains(t *testing.T, got, want string) {
	t.Helper()

	if !strings.Contains(got, want) {
		t.Fatalf("output missing %q:\n%s", want, got)
	}
}

func TestRunPlainFASTQ(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "reads.fastq", goodFASTQ)

	code, stdout, stderr := runCLI(path)
	if code != exitSuccess {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}

	assertContains(t, stdout, path+"\n")
	assertContains(t, stdout, "format:   FASTQ")
	assertContains(t, stdout, "records:  2 (good 2, no quality 0, corrupt 0)")
	assertContains(t, stdout, "bases:    8 (8 bp)")
	assertContains(t, stdout, "lengths:  4-4, mean 4.0, N50 4")
	assertContains(t, stdout, "GC:       75.00%, non-ACGT 0.00%")
	assertContains(t, stdout, "quality:  Phred+33, mean Q40.0, Q20 100.00%, Q30 100.00%")
	if strings.Contains(stdout, "\ntotal\n") {
		t.Fatalf("single input should not print a total:\n%s", stdout)
	}
	if stderr != "" {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
}

func TestRunFASTAHasNoQualityLine(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "genome.fa", ">chr1\nACGT\nAC\n")

	code, stdout, _ := runCLI(path)
	if code != exitSuccess {
		t.Fatalf("exit code %d", code)
	}
	assertContains(t, stdout, "format:   FASTA")
	assertContains(t, stdout, "records:  1 (good 1, no quality 0, corrupt 0)")
	if strings.Contains(stdout, "quality:") {
		t.Fatalf("FASTA summary should not report quality:\n%s", stdout)
	}
}

func TestRunGzipByMagicBytes(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reads.bin")
	writeGzipFile(t, path, []byte(goodFASTQ))

	code, stdout, stderr := runCLI(path)
	if code != exitSuccess {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}
	assertContains(t, stdout, "records:  2 (good 2")
}

func TestRunMultipleFilesKeepArgumentOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := filepath.Join(dir, "b.fa")
	second := filepath.Join(dir, "a.fq")
	if err := os.WriteFile(first, []byte(">x\nAC\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(second, []byte(goodFASTQ), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	code, stdout, _ := runCLI("-w", "2", first, second)
	if code != exitSuccess {
		t.Fatalf("exit code %d", code)
	}

	i, j := strings.Index(stdout, first), strings.Index(stdout, second)
	if i < 0 || j < 0 || i > j {
		t.Fatalf("summaries out of order:\n%s", stdout)
	}

	k := strings.Index(stdout, "\ntotal\n")
	if k < j {
		t.Fatalf("total block missing or not last:\n%s", stdout)
	}
	total := stdout[k:]
	assertContains(t, total, "format:   unknown")
	assertContains(t, total, "records:  3 (good 3, no quality 0, corrupt 0)")
	assertContains(t, total, "bases:    10 (10 bp)")
	assertContains(t, total, "lengths:  2-4, mean 3.3, N50 4")
}

func TestRunCorruptWarnsButSucceeds(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "bad.fq", corruptFASTQ)

	code, stdout, stderr := runCLI(path)
	if code != exitSuccess {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}
	assertContains(t, stdout, "corrupt 1)")
	assertContains(t, stderr, "warning: "+path+": 1 corrupt record(s) skipped")
}

func TestRunQuietSuppressesWarnings(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "bad.fq", corruptFASTQ)

	code, _, stderr := runCLI("-q", path)
	if code != exitSuccess {
		t.Fatalf("exit code %d", code)
	}
	if stderr != "" {
		t.Fatalf("quiet mode should not warn, got: %s", stderr)
	}
}

func TestRunStrictFailsOnCorruption(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "bad.fq", corruptFASTQ)

	code, stdout, stderr := runCLI("--strict", path)
	if code != exitError {
		t.Fatalf("exit code %d, want %d", code, exitError)
	}
	assertContains(t, stderr, "error: "+path+": corrupt record #2")
	if stdout != "" {
		t.Fatalf("no summary expected on failure, got: %s", stdout)
	}
}

func TestRunMissingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.fq")
	code, _, stderr := runCLI(path)
	if code != exitError {
		t.Fatalf("exit code %d, want %d", code, exitError)
	}
	assertContains(t, stderr, "cannot open input")
	if n := strings.Count(stderr, path); n != 1 {
		t.Fatalf("path printed %d times: %s", n, stderr)
	}
}

func TestRunNegativeWorkers(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "reads.fq", goodFASTQ)

	code, _, stderr := runCLI("--workers=-1", path)
	if code != exitError {
		t.Fatalf("exit code %d, want %d", code, exitError)
	}
	assertContains(t, stderr, "workers can't be < 0")
}

func TestRunUnknownFlag(t *testing.T) {
	t.Parallel()

	code, _, stderr := runCLI("--bogus")
	if code != exitError {
		t.Fatalf("exit code %d, want %d", code, exitError)
	}
	assertContains(t, stderr, "unknown flag")
}

func TestRunVersion(t *testing.T) {
	t.Parallel()

	code, stdout, _ := runCLI("--version")
	if code != exitSuccess {
		t.Fatalf("exit code %d", code)
	}
	assertContains(t, stdout, "fxscan version "+version)
}

func TestRunConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "fxscan.toml")
	if err := os.WriteFile(cfgPath, []byte("strict = true\nworkers = 2\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	path := filepath.Join(dir, "bad.fq")
	if err := os.WriteFile(path, []byte(corruptFASTQ), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}

	code, _, stderr := runCLI("--config", cfgPath, path)
	if code != exitError {
		t.Fatalf("config file should enable strict mode, exit code %d", code)
	}
	assertContains(t, stderr, "corrupt record #2")
}

func TestRunMissingConfigFile(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "reads.fq", goodFASTQ)

	code, _, stderr := runCLI("--config", filepath.Join(t.TempDir(), "nope.toml"), path)
	if code != exitError {
		t.Fatalf("exit code %d, want %d", code, exitError)
	}
	assertContains(t, stderr, "cannot read config file")
}

func TestRunEnvironment(t *testing.T) {
	t.Setenv("FXSCAN_STRICT", "true")

	path := writeTestFile(t, "bad.fq", corruptFASTQ)

	if code, _, _ := runCLI(path); code != exitError {
		t.Fatalf("FXSCAN_STRICT should enable strict mode, exit code %d", code)
	}

	// Explicit flags win over the environment.
	if code, _, stderr := runCLI("--strict=false", path); code != exitSuccess {
		t.Fatalf("--strict=false should override env, exit code %d, stderr: %s", code, stderr)
	}
}

func TestRunStdinGzip(t *testing.T) {
	pr, pw, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer func() { _ = pr.Close() }()

	var gzData bytes.Buffer
	gz := gzip.NewWriter(&gzData)
	if _, err := gz.Write([]byte(goodFASTQ)); err != nil {
		t.Fatalf("write gzip payload: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip writer: %v", err)
	}

	go func() {
		_, _ = pw.Write(gzData.Bytes())
		_ = pw.Close()
	}()

	originalStdin := os.Stdin
	os.Stdin = pr
	defer func() { os.Stdin = originalStdin }()

	code, stdout, stderr := runCLI()
	if code != exitSuccess {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}
	assertContains(t, stdout, "<stdin>\n")
	assertContains(t, stdout, "records:  2 (good 2")
}
