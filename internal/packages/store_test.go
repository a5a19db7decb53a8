package packages_test

import (
	"context"
	"testing"
	"time"

	"aquarius/internal/packages"
	"aquarius/internal/testsupport"
)

func newTransfer(accessionURL string) *packages.TransferRecord {
	return &packages.TransferRecord{
		URL:       "http://aurora.test/transfers/1/",
		Accession: accessionURL,
		Metadata: packages.TransferMetadata{
			Title:       "Board minutes",
			DateStart:   time.Date(2016, time.January, 1, 0, 0, 0, 0, time.UTC),
			DateEnd:     time.Date(2016, time.June, 1, 0, 0, 0, 0, time.UTC),
			PayloadOxum: "1024.2",
		},
	}
}

func TestCreateAndGet(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	pkg := &packages.Package{
		BagIdentifier: "bag-1",
		Type:          "aip",
		FedoraURI:     "http://fedora.test/rest/prod/ab/cd",
		Data:          newTransfer("http://aurora.test/accessions/5/"),
	}
	if err := store.Create(ctx, pkg); err != nil {
		t.Fatalf("create: %v", err)
	}
	if pkg.ID == 0 {
		t.Fatal("create should assign an id")
	}
	if pkg.ProcessStatus != packages.StatusSaved {
		t.Fatalf("default status should be saved, got %d", pkg.ProcessStatus)
	}
	if pkg.Origin != packages.OriginAurora {
		t.Fatalf("default origin should be aurora, got %q", pkg.Origin)
	}

	loaded, err := store.GetByID(ctx, pkg.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected package, got nil")
	}
	if loaded.Data == nil || loaded.Data.Accession != "http://aurora.test/accessions/5/" {
		t.Fatalf("transfer data did not round-trip: %+v", loaded.Data)
	}
	if loaded.AccessionData != nil {
		t.Fatal("accession data should be absent")
	}

	missing, err := store.GetByID(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing package, got %+v", missing)
	}
}

func TestCreateRequiresBagIdentifier(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	if err := store.Create(context.Background(), &packages.Package{}); err == nil {
		t.Fatal("expected error for empty bag identifier")
	}
}

func TestListByStatusOrdersOldestFirst(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	first := &packages.Package{BagIdentifier: "bag-a", Type: "aip"}
	second := &packages.Package{BagIdentifier: "bag-b", Type: "dip"}
	third := &packages.Package{BagIdentifier: "bag-c", Type: "aip", ProcessStatus: packages.StatusAccessionCreated}
	for _, pkg := range []*packages.Package{first, second, third} {
		if err := store.Create(ctx, pkg); err != nil {
			t.Fatalf("create %s: %v", pkg.BagIdentifier, err)
		}
	}

	saved, err := store.ListByStatus(ctx, packages.StatusSaved)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("expected 2 saved packages, got %d", len(saved))
	}
	if saved[0].BagIdentifier != "bag-a" || saved[1].BagIdentifier != "bag-b" {
		t.Fatalf("expected ingestion order, got %s then %s",
			saved[0].BagIdentifier, saved[1].BagIdentifier)
	}
}

func TestGroupQueries(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	group := "http://aurora.test/accessions/7/"

	a := &packages.Package{BagIdentifier: "bag-a", Type: "aip", Data: newTransfer(group)}
	b := &packages.Package{BagIdentifier: "bag-b", Type: "aip", Data: newTransfer(group)}
	other := &packages.Package{BagIdentifier: "bag-x", Type: "aip", Data: newTransfer("http://aurora.test/accessions/8/")}
	for _, pkg := range []*packages.Package{a, b, other} {
		if err := store.Create(ctx, pkg); err != nil {
			t.Fatalf("create %s: %v", pkg.BagIdentifier, err)
		}
	}

	siblings, err := store.ListByGroupKey(ctx, group)
	if err != nil {
		t.Fatalf("list by group: %v", err)
	}
	if len(siblings) != 2 {
		t.Fatalf("expected 2 group members, got %d", len(siblings))
	}

	// Nobody in the group holds accession data yet.
	holder, err := store.FindSiblingWithAccessionData(ctx, group, a.ID)
	if err != nil {
		t.Fatalf("find sibling: %v", err)
	}
	if holder != nil {
		t.Fatalf("expected no holder yet, got package %d", holder.ID)
	}

	b.AccessionData = &packages.AccessionRecord{
		URL:                     group,
		Title:                   "Office records",
		ArchivesSpaceIdentifier: "/repositories/2/accessions/3",
	}
	if err := store.Update(ctx, b); err != nil {
		t.Fatalf("update: %v", err)
	}

	holder, err = store.FindSiblingWithAccessionData(ctx, group, a.ID)
	if err != nil {
		t.Fatalf("find sibling after update: %v", err)
	}
	if holder == nil || holder.ID != b.ID {
		t.Fatalf("expected package %d as holder, got %+v", b.ID, holder)
	}

	// The holder itself must be excluded from its own lookup.
	holder, err = store.FindSiblingWithAccessionData(ctx, group, b.ID)
	if err != nil {
		t.Fatalf("find sibling excluding holder: %v", err)
	}
	if holder != nil {
		t.Fatalf("expected exclusion of package %d, got %+v", b.ID, holder)
	}
}

func TestListByBagIdentifier(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	aip := &packages.Package{BagIdentifier: "bag-1", Type: "aip"}
	dip := &packages.Package{BagIdentifier: "bag-1", Type: "dip"}
	if err := store.Create(ctx, aip); err != nil {
		t.Fatalf("create aip: %v", err)
	}
	if err := store.Create(ctx, dip); err != nil {
		t.Fatalf("create dip: %v", err)
	}

	rows, err := store.ListByBagIdentifier(ctx, "bag-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected both rows, got %d", len(rows))
	}
}

func TestUpdateMissingPackage(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	pkg := &packages.Package{ID: 42, BagIdentifier: "bag-z"}
	if err := store.Update(context.Background(), pkg); err == nil {
		t.Fatal("expected error updating a missing package")
	}
}

func TestSummary(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	for i, status := range []packages.Status{
		packages.StatusSaved, packages.StatusSaved, packages.StatusUpdateSent,
	} {
		pkg := &packages.Package{
			BagIdentifier: "bag-" + string(rune('a'+i)),
			Type:          "aip",
			ProcessStatus: status,
		}
		if err := store.Create(ctx, pkg); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	summary, err := store.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary[packages.StatusSaved] != 2 || summary[packages.StatusUpdateSent] != 1 {
		t.Fatalf("unexpected summary %v", summary)
	}
}

func TestAdvanceNeverLowersStatus(t *testing.T) {
	pkg := &packages.Package{ProcessStatus: packages.StatusTransferComponentCreated}
	pkg.Advance(packages.StatusAccessionCreated)
	if pkg.ProcessStatus != packages.StatusTransferComponentCreated {
		t.Fatalf("advance lowered status to %d", pkg.ProcessStatus)
	}
	pkg.Advance(packages.StatusDigitalObjectCreated)
	if pkg.ProcessStatus != packages.StatusDigitalObjectCreated {
		t.Fatalf("advance should raise status, got %d", pkg.ProcessStatus)
	}
}
