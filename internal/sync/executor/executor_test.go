package executor

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ccarocean/copernicus-sync/internal/codec"
	"github.com/ccarocean/copernicus-sync/internal/logging"
	"github.com/ccarocean/copernicus-sync/internal/remote"
	"github.com/ccarocean/copernicus-sync/internal/sync/diff"
	"github.com/ccarocean/copernicus-sync/internal/sync/scanner"
)

const prefix = "nrt_global_allsat_phy_l4_"

// fakeSession serves canned file contents and can fail partway through a
// transfer.
type fakeSession struct {
	files     map[string][]byte
	failAfter map[string]int // bytes written before the failure
	retrieves []string
}

func (f *fakeSession) List(dir string) ([]remote.Entry, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeSession) Retrieve(path string, w io.Writer) error {
	f.retrieves = append(f.retrieves, path)
	data, ok := f.files[path]
	if !ok {
		return errors.New("no such file: " + path)
	}
	if n, fail := f.failAfter[path]; fail {
		if _, err := w.Write(data[:n]); err != nil {
			return err
		}
		return errors.New("connection reset")
	}
	_, err := w.Write(data)
	return err
}

func (f *fakeSession) Close() error { return nil }

func fetchAction(d codec.Date, remotePath string, mtime time.Time, size int64) diff.Action {
	return diff.Action{
		Type:   diff.ActionFetch,
		Date:   d,
		Reason: diff.ReasonNew,
		Remote: &scanner.FileRecord{Path: remotePath, Modified: mtime, Size: size},
	}
}

func TestApply_FetchWritesFileAndMtime(t *testing.T) {
	root := t.TempDir()
	mtime := time.Date(2021, time.June, 15, 8, 30, 0, 0, time.UTC)
	content := []byte("netcdf bytes")

	sess := &fakeSession{files: map[string][]byte{
		"2021/06/nrt_global_allsat_phy_l4_20210615.nc": content,
	}}
	exec := New(sess, logging.NewNoOpLogger())

	d := codec.Date{Year: 2021, Month: time.June, Day: 15}
	summary, err := exec.Apply(context.Background(),
		[]diff.Action{fetchAction(d, "2021/06/nrt_global_allsat_phy_l4_20210615.nc", mtime, int64(len(content)))},
		root, prefix, Options{})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if summary.Fetched != 1 {
		t.Errorf("Fetched = %d, want 1", summary.Fetched)
	}
	if summary.Bytes != int64(len(content)) {
		t.Errorf("Bytes = %d, want %d", summary.Bytes, len(content))
	}

	dest := filepath.Join(root, "2021", "nrt_global_allsat_phy_l4_20210615.nc")
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("destination missing: %v", err)
	}
	if string(data) != string(content) {
		t.Errorf("content = %q, want %q", data, content)
	}

	info, err := os.Stat(dest)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Truncate(time.Second).Equal(mtime) {
		t.Errorf("mtime = %v, want %v", info.ModTime(), mtime)
	}

	// No leftover temp file.
	if _, err := os.Stat(dest + partSuffix); !os.IsNotExist(err) {
		t.Error("part file left behind after successful fetch")
	}
}

func TestApply_FailedFetchLeavesNothing(t *testing.T) {
	root := t.TempDir()
	content := []byte("0123456789")

	sess := &fakeSession{
		files:     map[string][]byte{"2021/nrt_global_allsat_phy_l4_20210101.nc": content},
		failAfter: map[string]int{"2021/nrt_global_allsat_phy_l4_20210101.nc": 4},
	}
	exec := New(sess, logging.NewNoOpLogger())

	d := codec.Date{Year: 2021, Month: time.January, Day: 1}
	_, err := exec.Apply(context.Background(),
		[]diff.Action{fetchAction(d, "2021/nrt_global_allsat_phy_l4_20210101.nc", time.Now(), 10)},
		root, prefix, Options{})
	if err == nil {
		t.Fatal("Apply() expected error from interrupted transfer")
	}

	dest := codec.LocalPath(root, prefix, d)
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Errorf("destination exists after failed fetch: %s", dest)
	}
	if _, statErr := os.Stat(dest + partSuffix); !os.IsNotExist(statErr) {
		t.Errorf("part file exists after failed fetch: %s", dest+partSuffix)
	}
}

func TestApply_DeleteIsIdempotent(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "2020", prefix+"20200101.nc")
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	exec := New(&fakeSession{}, logging.NewNoOpLogger())
	action := diff.Action{
		Type:  diff.ActionDelete,
		Date:  codec.Date{Year: 2020, Month: time.January, Day: 1},
		Local: &scanner.FileRecord{Path: target},
	}

	summary, err := exec.Apply(context.Background(), []diff.Action{action}, root, prefix, Options{})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if summary.Deleted != 1 {
		t.Errorf("Deleted = %d, want 1", summary.Deleted)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Error("file still present after delete")
	}

	// Deleting an already-absent file succeeds.
	if _, err := exec.Apply(context.Background(), []diff.Action{action}, root, prefix, Options{}); err != nil {
		t.Errorf("second delete errored: %v", err)
	}
}

func TestApply_DryRunTouchesNothing(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "2020", prefix+"20200102.nc")
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("keep me"), 0644); err != nil {
		t.Fatal(err)
	}

	sess := &fakeSession{}
	exec := New(sess, logging.NewNoOpLogger())

	actions := []diff.Action{
		fetchAction(codec.Date{Year: 2020, Month: time.January, Day: 1}, "2020/x.nc", time.Now(), 5),
		{
			Type:  diff.ActionDelete,
			Date:  codec.Date{Year: 2020, Month: time.January, Day: 2},
			Local: &scanner.FileRecord{Path: target},
		},
	}

	summary, err := exec.Apply(context.Background(), actions, root, prefix, Options{DryRun: true})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if summary.Fetched != 1 || summary.Deleted != 1 {
		t.Errorf("summary = %+v, want one fetch and one delete counted", summary)
	}
	if len(sess.retrieves) != 0 {
		t.Error("dry run performed a retrieval")
	}
	if _, err := os.Stat(target); err != nil {
		t.Error("dry run deleted a file")
	}
}

func TestApply_CancelledContextStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sess := &fakeSession{files: map[string][]byte{"2020/x.nc": []byte("data")}}
	exec := New(sess, logging.NewNoOpLogger())

	_, err := exec.Apply(ctx,
		[]diff.Action{fetchAction(codec.Date{Year: 2020, Month: time.January, Day: 1}, "2020/x.nc", time.Now(), 4)},
		t.TempDir(), prefix, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Apply() error = %v, want context.Canceled", err)
	}
	if len(sess.retrieves) != 0 {
		t.Error("cancelled run still contacted the server")
	}
}

func TestApply_SkipCountsOnly(t *testing.T) {
	exec := New(&fakeSession{}, logging.NewNoOpLogger())
	actions := []diff.Action{{
		Type: diff.ActionSkip,
		Date: codec.Date{Year: 2020, Month: time.January, Day: 1},
	}}

	summary, err := exec.Apply(context.Background(), actions, t.TempDir(), prefix, Options{})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if summary.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", summary.Skipped)
	}
}
