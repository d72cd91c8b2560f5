// Command ledger_verify scans every active student for ledger drift:
// duplicate records, transaction sums that disagree with amount_paid,
// overpaid semesters and stale top-level counters. By default it only
// reports; -apply persists the reconciled aggregates.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/campora/college-admin-api/internal/ledger"
	"github.com/campora/college-admin-api/internal/repository"
	"github.com/campora/college-admin-api/pkg/config"
	"github.com/campora/college-admin-api/pkg/database"
)

type result struct {
	USN     string
	Changed bool
	Err     error
}

func main() {
	var (
		apply   bool
		timeout time.Duration
	)
	flag.BoolVar(&apply, "apply", false, "persist reconciled ledgers instead of reporting only")
	flag.DurationVar(&timeout, "timeout", 5*time.Minute, "overall run timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	students := repository.NewStudentRepository(db)

	ids, err := students.ListActiveIDs(ctx)
	if err != nil {
		log.Fatalf("failed to list students: %v", err)
	}

	var (
		results []result
		drifted int
		failed  int
	)
	for _, id := range ids {
		res := verifyStudent(ctx, students, cfg.Fees.FallbackSemesterFee, id, apply)
		if res.Err != nil {
			failed++
		} else if res.Changed {
			drifted++
		}
		results = append(results, res)
	}

	printReport(results, apply)

	fmt.Printf("Scanned: %d, Drifted: %d, Errors: %d\n", len(results), drifted, failed)
	if failed > 0 || (drifted > 0 && !apply) {
		os.Exit(1)
	}
}

func verifyStudent(ctx context.Context, students *repository.StudentRepository, fallbackFee int64, id string, apply bool) result {
	student, err := students.FindByID(ctx, id)
	if err != nil {
		return result{USN: id, Err: fmt.Errorf("load student: %w", err)}
	}

	res := result{USN: student.USN}

	changed, err := ledger.Reconcile(student, fallbackFee, time.Now().UTC())
	if err != nil {
		res.Err = fmt.Errorf("reconcile: %w", err)
		return res
	}
	res.Changed = changed

	if changed && apply {
		if err := students.Save(ctx, student); err != nil {
			res.Err = fmt.Errorf("save: %w", err)
		}
	}
	return res
}

func printReport(results []result, applied bool) {
	fmt.Println("Ledger Verification Report")
	fmt.Println("==========================")
	for _, res := range results {
		status := "OK"
		switch {
		case res.Err != nil:
			status = "ERROR"
		case res.Changed && applied:
			status = "FIXED"
		case res.Changed:
			status = "DRIFT"
		}
		fmt.Printf("[%s] %s\n", status, res.USN)
		if res.Err != nil {
			fmt.Printf("  Error: %v\n", res.Err)
		}
	}
}
