package app

import (
	"fmt"
	"net/http"
	"strings"

	"go-hris-admin/internal/config"
	"go-hris-admin/internal/search"
	"go-hris-admin/internal/shared/apperror"
	"go-hris-admin/internal/shared/contextutil"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errUnknownStatus = apperror.New(
	apperror.CodeInvalidInput,
	`Status must be "active" or "inactive"`,
	http.StatusBadRequest,
)

// NewRootCommand builds the admin command tree. Configuration is loaded and
// the App built once the command line has been parsed.
func NewRootCommand(streams Streams, logger *zap.Logger) *cobra.Command {
	var (
		envFile   string
		assumeYes bool
		a         *App
	)
	app := func() *App { return a }

	cmd := &cobra.Command{
		Use:           "admin",
		Short:         "Department and employee administration",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			a, err = BuildApp(cfg, streams, assumeYes, logger)
			if err != nil {
				return err
			}
			cmd.SetContext(contextutil.WithOperator(cmd.Context(), cfg.Operator))
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a == nil {
				return nil
			}
			return a.Close()
		},
	}
	cmd.SetIn(streams.In)
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.Err)

	cmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load configuration from this .env file")
	cmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes to every confirmation")

	cmd.AddCommand(
		newDepartmentsCommand(app),
		newEmployeesCommand(app),
		newAuditCommand(app),
	)
	return cmd
}

// pageFlags are shared by the list commands. Page is 1-based on the
// command line.
type pageFlags struct {
	page   int
	size   int
	sort   string
	dir    string
	status string
}

func (p *pageFlags) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&p.size, "size", search.DefaultSize, "rows per page")
	cmd.Flags().StringVar(&p.sort, "sort", "", "sort field, e.g. name or createdAt")
	cmd.Flags().StringVar(&p.dir, "dir", "", "sort direction, ASC or DESC")
	cmd.Flags().StringVar(&p.status, "status", "", `"active" (default) or "inactive"`)
}

func (p *pageFlags) offset() int {
	return (p.page - 1) * p.size
}

// applySort changes only what was given; a bare --dir keeps the default field.
func applySort[F any, T search.Record[T]](state *search.State[F, T], p *pageFlags) {
	if p.sort == "" && p.dir == "" {
		return
	}
	c := state.Criteria()
	by, dir := c.SortBy, c.SortDirection
	if p.sort != "" {
		by, dir = p.sort, search.ASC
	}
	if p.dir != "" {
		dir = search.Direction(strings.ToUpper(p.dir))
	}
	state.SetSort(by, dir)
}

func statusFilter(s string) (*bool, error) {
	switch strings.ToLower(s) {
	case "":
		return nil, nil
	case "active":
		v := true
		return &v, nil
	case "inactive":
		v := false
		return &v, nil
	default:
		return nil, errUnknownStatus
	}
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

type fieldSetter interface {
	Set(name, value string) error
}

// flagField maps a command line flag onto a form field.
type flagField struct {
	flag  string
	field string
}

// applyFlags copies every flag the operator actually gave into the form.
func applyFlags(cmd *cobra.Command, f fieldSetter, mapping []flagField) error {
	for _, m := range mapping {
		if !cmd.Flags().Changed(m.flag) {
			continue
		}
		if err := f.Set(m.field, cmd.Flags().Lookup(m.flag).Value.String()); err != nil {
			return fmt.Errorf("--%s: %w", m.flag, err)
		}
	}
	return nil
}

func cancelled(cmd *cobra.Command, done bool) {
	if !done {
		fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled")
	}
}
