package docmerge

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/openbiz/backend/internal/domain/sales"
	"github.com/openbiz/backend/internal/domain/shared"
)

const (
	// AutoOutputDir writes the merged file to the temp directory of the mode
	AutoOutputDir = "auto"
	// DefaultFilePrefix names the merged file when no prefix is given
	DefaultFilePrefix = "mergedpdf"
)

// Options drive one rebuild batch
type Options struct {
	Mode              sales.Mode     `json:"mode" validate:"required"`
	OutputDir         string         `json:"output_dir" validate:"omitempty,max=255"`
	Language          string         `json:"lang" validate:"omitempty,max=16"`
	Filters           []sales.Filter `json:"filters" validate:"dive,required"`
	DateAfter         time.Time      `json:"date_after"`
	DateBefore        time.Time      `json:"date_before"`
	PaymentDateAfter  time.Time      `json:"payment_date_after"`
	PaymentDateBefore time.Time      `json:"payment_date_before"`
	Regenerate        string         `json:"regenerate" validate:"omitempty,max=64"`
	FileSuffix        string         `json:"file_suffix" validate:"omitempty,max=64,excludesall=/\\"`
	FilePrefix        string         `json:"file_prefix" validate:"omitempty,max=64,excludesall=/\\"`
	BankAccountID     uuid.UUID      `json:"bank_account_id"`
	ThirdPartyIDs     []uuid.UUID    `json:"third_party_ids"`
	DoNotMerge        bool           `json:"do_not_merge"`

	// Progress receives one line per step when set; otherwise steps go to the logger
	Progress io.Writer `json:"-" validate:"-"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Selection converts the options into the document selection
func (o Options) Selection() sales.Selection {
	return sales.Selection{
		Mode:              o.Mode,
		Filters:           o.Filters,
		DateAfter:         o.DateAfter,
		DateBefore:        o.DateBefore,
		PaymentDateAfter:  o.PaymentDateAfter,
		PaymentDateBefore: o.PaymentDateBefore,
		BankAccountID:     o.BankAccountID,
		ThirdPartyIDs:     o.ThirdPartyIDs,
	}
}

// Validate checks field formats and the filter requirements
func (o Options) Validate() error {
	if _, err := sales.ParseMode(string(o.Mode)); err != nil {
		return shared.NewDomainError("INVALID_INPUT", "Bad value for mode")
	}
	if err := validate.Struct(o); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return shared.NewDomainError("INVALID_INPUT", "Invalid options: "+strings.Join(fields, ", "))
		}
		return err
	}
	if err := o.Selection().Validate(); err != nil {
		return shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	return nil
}

// MergedFileName returns "<prefix>[_<suffix>].pdf"
func (o Options) MergedFileName() string {
	name := o.FilePrefix
	if name == "" {
		name = DefaultFilePrefix
	}
	if o.FileSuffix != "" {
		name += "_" + o.FileSuffix
	}
	return name + ".pdf"
}

// OutputKey returns the storage key of the merged file, under the tenant directory
func (o Options) OutputKey(tenantID uuid.UUID) string {
	dir := strings.Trim(o.OutputDir, "/")
	if dir == "" || dir == AutoOutputDir {
		dir = o.Mode.OutputDir() + "/temp"
	}
	return sales.TenantDir(tenantID) + "/" + dir + "/" + o.MergedFileName()
}
