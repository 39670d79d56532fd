package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/openbiz/backend/internal/application/docmerge"
	"github.com/openbiz/backend/internal/domain/sales"
)

// dateLayouts are the accepted formats of the date flags
var dateLayouts = []string{"20060102", "2006-01-02"}

type flags struct {
	tenant            string
	mode              string
	filters           []string
	dateAfter         string
	dateBefore        string
	paymentDateAfter  string
	paymentDateBefore string
	lang              string
	output            string
	regenerate        string
	prefix            string
	suffix            string
	bank              string
	thirdParties      []string
	doNotMerge        bool
	stdout            bool
	configFile        string
	logLevel          string
}

func (f *flags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.tenant, "tenant", "", "Tenant id (required)")
	fs.StringVar(&f.mode, "mode", string(sales.ModeInvoice), "Documents to process: invoice, order, proposal or shipment")
	fs.StringSliceVar(&f.filters, "filter", []string{string(sales.FilterAll)},
		"Selection filters: all, date, nopayment, payments, bank, nodeposit, noreplacement, nocreditnote, excludethirdparties, onlythirdparties")
	fs.StringVar(&f.dateAfter, "date-after", "", "First document date (YYYYMMDD), with --filter=date")
	fs.StringVar(&f.dateBefore, "date-before", "", "Last document date (YYYYMMDD), with --filter=date")
	fs.StringVar(&f.paymentDateAfter, "payment-date-after", "", "First payment date (YYYYMMDD), with --filter=payments")
	fs.StringVar(&f.paymentDateBefore, "payment-date-before", "", "Last payment date (YYYYMMDD), with --filter=payments")
	fs.StringVar(&f.lang, "lang", "", "Output language, e.g. fr-FR")
	fs.StringVar(&f.output, "output", docmerge.AutoOutputDir, "Storage directory of the merged file; auto uses <mode dir>/temp")
	fs.StringVar(&f.regenerate, "regenerate", "", "Rebuild every PDF with this model instead of reusing existing files")
	fs.StringVar(&f.prefix, "prefix", docmerge.DefaultFilePrefix, "Merged file name prefix")
	fs.StringVar(&f.suffix, "suffix", "", "Merged file name suffix")
	fs.StringVar(&f.bank, "bank", "", "Bank account id, with --filter=bank")
	fs.StringSliceVar(&f.thirdParties, "third-parties", nil, "Third party ids, with --filter=excludethirdparties or onlythirdparties")
	fs.BoolVar(&f.doNotMerge, "donotmerge", false, "Only build the missing PDF files")
	fs.BoolVar(&f.stdout, "stdout", false, "Print progress on stdout instead of the log")
	fs.StringVar(&f.configFile, "config", "", "Configuration file")
	fs.StringVar(&f.logLevel, "log-level", "", "Override the configured log level")
	_ = cmd.MarkFlagRequired("tenant")
}

// options converts the flags into batch options. Progress goes to out when --stdout is set.
func (f *flags) options(out io.Writer) (uuid.UUID, docmerge.Options, error) {
	tenantID, err := uuid.Parse(f.tenant)
	if err != nil {
		return uuid.Nil, docmerge.Options{}, fmt.Errorf("invalid --tenant %q", f.tenant)
	}

	opts := docmerge.Options{
		Mode:       sales.Mode(f.mode),
		OutputDir:  f.output,
		Language:   f.lang,
		Regenerate: f.regenerate,
		FilePrefix: f.prefix,
		FileSuffix: f.suffix,
		DoNotMerge: f.doNotMerge,
	}
	for _, name := range f.filters {
		if name = strings.TrimSpace(name); name != "" {
			opts.Filters = append(opts.Filters, sales.Filter(name))
		}
	}

	// before-bounds cover the whole last day
	dates := []struct {
		flag     string
		value    string
		dst      *time.Time
		endOfDay bool
	}{
		{"date-after", f.dateAfter, &opts.DateAfter, false},
		{"date-before", f.dateBefore, &opts.DateBefore, true},
		{"payment-date-after", f.paymentDateAfter, &opts.PaymentDateAfter, false},
		{"payment-date-before", f.paymentDateBefore, &opts.PaymentDateBefore, true},
	}
	for _, d := range dates {
		if d.value == "" {
			continue
		}
		t, err := parseDate(d.value)
		if err != nil {
			return uuid.Nil, docmerge.Options{}, fmt.Errorf("invalid --%s: %w", d.flag, err)
		}
		if d.endOfDay {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		*d.dst = t
	}

	if f.bank != "" {
		if opts.BankAccountID, err = uuid.Parse(f.bank); err != nil {
			return uuid.Nil, docmerge.Options{}, fmt.Errorf("invalid --bank %q", f.bank)
		}
	}
	for _, s := range f.thirdParties {
		id, err := uuid.Parse(strings.TrimSpace(s))
		if err != nil {
			return uuid.Nil, docmerge.Options{}, fmt.Errorf("invalid third party id %q", s)
		}
		opts.ThirdPartyIDs = append(opts.ThirdPartyIDs, id)
	}

	if f.stdout {
		opts.Progress = out
	}
	return tenantID, opts, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not a YYYYMMDD date", s)
}
