package store

import (
	"path/filepath"
	"testing"
	"time"

	"panion/internal/model"
)

// --- appendTimeClauses ---

func TestAppendTimeClauses_WhenFilterIsNil_ShouldReturnEmptyStringAndUnchangedParams(t *testing.T) {
	params := []interface{}{"existing"}
	clause, out := appendTimeClauses(nil, "created_at", true, params)

	if clause != "" {
		t.Errorf("expected empty clause, got %q", clause)
	}
	if len(out) != 1 {
		t.Errorf("expected params unchanged (len=1), got len=%d", len(out))
	}
}

func TestAppendTimeClauses_WhenOnlySinceSet_ShouldReturnSingleAndClause(t *testing.T) {
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tf := &model.TimeFilter{Since: &since}
	params := []interface{}{"existing"}

	clause, out := appendTimeClauses(tf, "created_at", true, params)

	if clause != " AND created_at >= ?" {
		t.Errorf("expected ' AND created_at >= ?', got %q", clause)
	}
	if len(out) != 2 {
		t.Errorf("expected 2 params, got %d", len(out))
	}
	if !out[1].(time.Time).Equal(since) {
		t.Errorf("expected since param, got %v", out[1])
	}
}

func TestAppendTimeClauses_WhenHasWhereIsFalseAndBothSet_ShouldUseWhereForFirstThenAnd(t *testing.T) {
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	tf := &model.TimeFilter{Since: &since, Until: &until}

	clause, _ := appendTimeClauses(tf, "created_at", false, nil)

	expected := " WHERE created_at >= ? AND created_at <= ?"
	if clause != expected {
		t.Errorf("expected %q, got %q", expected, clause)
	}
}

func TestAppendTimeClauses_WhenFilterHasNoFields_ShouldReturnEmpty(t *testing.T) {
	tf := &model.TimeFilter{}
	clause, out := appendTimeClauses(tf, "created_at", true, []interface{}{"x"})

	if clause != "" {
		t.Errorf("expected empty clause, got %q", clause)
	}
	if len(out) != 1 {
		t.Errorf("expected params unchanged, got len=%d", len(out))
	}
}

// --- Integration tests with DuckDB ---

// openTestStore creates a fresh DuckDB store with the schema initialized.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.duckdb")
	st, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	if err := st.Init(); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func sampleAnalytics(total int) *model.Analytics {
	return &model.Analytics{
		TotalMessages:  total,
		TopContact:     "Alice",
		WellbeingScore: 75,
		Contacts:       []model.ContactStats{},
		Insights:       []string{"You're most active on Friday"},
	}
}

func TestSaveReport_WhenSavedAndFetched_ShouldRoundTripAnalytics(t *testing.T) {
	st := openTestStore(t)

	if err := st.SaveReport("report-1", sampleAnalytics(42)); err != nil {
		t.Fatalf("save report: %v", err)
	}

	got, err := st.GetReport("report-1")
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	if got == nil {
		t.Fatal("expected report, got nil")
	}
	if got.TotalMessages != 42 || got.TopContact != "Alice" || got.WellbeingScore != 75 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestSaveReport_WhenIdExists_ShouldReplaceSnapshot(t *testing.T) {
	st := openTestStore(t)

	if err := st.SaveReport("report-1", sampleAnalytics(10)); err != nil {
		t.Fatalf("save report: %v", err)
	}
	if err := st.SaveReport("report-1", sampleAnalytics(20)); err != nil {
		t.Fatalf("save report again: %v", err)
	}

	got, err := st.GetReport("report-1")
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	if got.TotalMessages != 20 {
		t.Errorf("expected replacement snapshot, got %d messages", got.TotalMessages)
	}
}

func TestGetReport_WhenIdUnknown_ShouldReturnNilWithoutError(t *testing.T) {
	st := openTestStore(t)

	got, err := st.GetReport("nope")
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown id, got %+v", got)
	}
}

func TestDeleteReport_WhenCalled_ShouldRemoveSnapshot(t *testing.T) {
	st := openTestStore(t)

	if err := st.SaveReport("report-1", sampleAnalytics(5)); err != nil {
		t.Fatalf("save report: %v", err)
	}
	if err := st.DeleteReport("report-1"); err != nil {
		t.Fatalf("delete report: %v", err)
	}

	got, err := st.GetReport("report-1")
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	if got != nil {
		t.Error("expected snapshot gone after delete")
	}

	// Deleting again is a no-op.
	if err := st.DeleteReport("report-1"); err != nil {
		t.Errorf("expected idempotent delete, got %v", err)
	}
}

func TestListReports_WhenMultipleSaved_ShouldReturnNewestFirst(t *testing.T) {
	st := openTestStore(t)

	for _, id := range []string{"a", "b", "c"} {
		if err := st.SaveReport(id, sampleAnalytics(1)); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	reports, err := st.ListReports(10, nil)
	if err != nil {
		t.Fatalf("list reports: %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(reports))
	}
	if reports[0].ID != "c" || reports[2].ID != "a" {
		t.Errorf("expected newest first [c b a], got [%s %s %s]",
			reports[0].ID, reports[1].ID, reports[2].ID)
	}
	if reports[0].Analytics == nil {
		t.Error("expected decoded analytics on listed report")
	}
}

func TestListReports_WhenLimitSmallerThanCount_ShouldTruncate(t *testing.T) {
	st := openTestStore(t)

	for _, id := range []string{"a", "b", "c"} {
		if err := st.SaveReport(id, sampleAnalytics(1)); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	reports, err := st.ListReports(2, nil)
	if err != nil {
		t.Fatalf("list reports: %v", err)
	}
	if len(reports) != 2 {
		t.Errorf("expected 2 reports, got %d", len(reports))
	}
}

func TestListReports_WhenSinceFilterSet_ShouldExcludeOlder(t *testing.T) {
	st := openTestStore(t)

	if err := st.SaveReport("old", sampleAnalytics(1)); err != nil {
		t.Fatalf("save old: %v", err)
	}
	cutoff := time.Now().UTC()
	time.Sleep(5 * time.Millisecond)
	if err := st.SaveReport("new", sampleAnalytics(2)); err != nil {
		t.Fatalf("save new: %v", err)
	}

	reports, err := st.ListReports(10, &model.TimeFilter{Since: &cutoff})
	if err != nil {
		t.Fatalf("list reports: %v", err)
	}
	if len(reports) != 1 || reports[0].ID != "new" {
		t.Errorf("expected only 'new', got %v", reports)
	}
}

// --- Coupons ---

func TestRedeemCoupon_WhenFirstRedemption_ShouldSucceedThenBlockRepeat(t *testing.T) {
	st := openTestStore(t)

	ok, err := st.RedeemCoupon("PANION-A9X4L2")
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if !ok {
		t.Error("expected first redemption to succeed")
	}

	ok, err = st.RedeemCoupon("PANION-A9X4L2")
	if err != nil {
		t.Fatalf("redeem again: %v", err)
	}
	if ok {
		t.Error("expected second redemption to be rejected")
	}
}

func TestIsCouponRedeemed_WhenNeverRedeemed_ShouldReturnFalse(t *testing.T) {
	st := openTestStore(t)

	redeemed, err := st.IsCouponRedeemed("PANION-HT72QZ")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if redeemed {
		t.Error("expected unredeemed")
	}

	if _, err := st.RedeemCoupon("PANION-HT72QZ"); err != nil {
		t.Fatalf("redeem: %v", err)
	}

	redeemed, err = st.IsCouponRedeemed("PANION-HT72QZ")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !redeemed {
		t.Error("expected redeemed after redemption")
	}
}
