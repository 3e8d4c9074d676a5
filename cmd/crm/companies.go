package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gartstein/crm/internal/brain"
	"github.com/gartstein/crm/internal/company/contracts"
	"github.com/gartstein/crm/internal/frontend/export"
	"github.com/gartstein/crm/internal/frontend/form"
	"github.com/gartstein/crm/internal/frontend/pages"
	"github.com/gartstein/crm/internal/storage"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the API and its database are up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := a.api.CheckHealth(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Status)
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List companies",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page := pages.NewListPage(a.api, a.logger)
			loadErr := page.Load(cmd.Context())
			if err := page.Render(cmd.OutOrStdout()); err != nil {
				return err
			}
			return loadErr
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <company-id>",
		Short: "Show one company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			page := pages.NewDetailPage(a.api, id, a.logger)
			loadErr := page.Load(cmd.Context())
			if err := page.Render(cmd.OutOrStdout()); err != nil {
				return err
			}
			if page.State() == pages.NotFound {
				return errors.New("no such company")
			}
			return loadErr
		},
	}
}

// bindValueFlags registers one flag per form input.
func bindValueFlags(flags *pflag.FlagSet, v *form.Values) {
	flags.StringVar(&v.Name, "name", "", "company name")
	flags.StringVar(&v.Industry, "industry", "", "industry")
	flags.StringVar(&v.Location, "location", "", "location")
	flags.StringVar(&v.LogoURL, "logo-url", "", "logo URL")
	flags.StringVar(&v.Revenue, "revenue", "", "yearly revenue, whole number")
	flags.StringVar(&v.Employees, "employees", "", "employee count, whole number")
}

// submit saves the form and, on success, re-fetches and shows the saved record.
func submit(cmd *cobra.Command, a *app, f *form.CompanyForm) error {
	f.Notifier = form.WriterNotifier{Out: cmd.ErrOrStderr(), Err: cmd.ErrOrStderr()}
	f.OnSuccess = func(c contracts.Company) {
		page := pages.NewDetailPage(a.api, c.ID, a.logger)
		if err := page.OnSaved(cmd.Context(), c); err != nil {
			a.logger.Warn("failed to reload saved company", zap.Error(err))
		}
		_ = page.Render(cmd.OutOrStdout())
	}

	_, err := f.Submit(cmd.Context())
	return err
}

func newCreateCmd(a *app) *cobra.Command {
	var values form.Values
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a company",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return submit(cmd, a, &form.CompanyForm{API: a.api, Values: values})
		},
	}
	bindValueFlags(cmd.Flags(), &values)
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var values form.Values
	cmd := &cobra.Command{
		Use:   "edit <company-id>",
		Short: "Change some fields of a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			current, err := a.api.GetCompany(cmd.Context(), id)
			if err != nil {
				if brain.IsNotFound(err) {
					return errors.New("no such company")
				}
				return err
			}

			// start from the stored record, then apply the flags that were given
			merged := form.FromCompany(current)
			overlay(cmd.Flags(), &merged, values)
			return submit(cmd, a, &form.CompanyForm{API: a.api, CompanyID: &id, Values: merged})
		},
	}
	bindValueFlags(cmd.Flags(), &values)
	return cmd
}

func overlay(flags *pflag.FlagSet, dst *form.Values, src form.Values) {
	pairs := []struct {
		flag string
		dst  *string
		src  string
	}{
		{"name", &dst.Name, src.Name},
		{"industry", &dst.Industry, src.Industry},
		{"location", &dst.Location, src.Location},
		{"logo-url", &dst.LogoURL, src.LogoURL},
		{"revenue", &dst.Revenue, src.Revenue},
		{"employees", &dst.Employees, src.Employees},
	}
	for _, p := range pairs {
		if flags.Changed(p.flag) {
			*p.dst = p.src
		}
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <company-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a company",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			page := pages.NewListPage(a.api, a.logger)
			if err := page.Delete(cmd.Context(), id); err != nil {
				if brain.IsNotFound(err) {
					return errors.New("no such company")
				}
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "Company deleted.")
			return page.Render(cmd.OutOrStdout())
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the company list to an XLSX file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			companies, err := a.api.ListCompanies(cmd.Context())
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := export.WriteXLSX(w, companies); err != nil {
				return err
			}
			if out != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d companies to %s\n", len(companies), out)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "companies.xlsx", `output file, "-" for stdout`)
	return cmd
}

func newLogoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logo <company-id> <image-file>",
		Short: "Upload a logo to S3 and set it on the company",
		Long: "Uploads the image to the bucket named by S3_BUCKET_NAME (region AWS_REGION,\n" +
			"optional S3_ENDPOINT) and stores the public URL as the company's logoUrl.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			file, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer file.Close()

			uploader, err := storage.NewLogoUploader(storage.S3ConfigFromEnv(), a.logger)
			if err != nil {
				return err
			}
			url, err := uploader.UploadLogo(cmd.Context(), id, file.Name(), file)
			if err != nil {
				return err
			}

			updated, err := a.api.UpdateCompany(cmd.Context(), id, contracts.UpdateCompanyRequest{LogoURL: &url})
			if err != nil {
				return fmt.Errorf("logo uploaded to %s but not saved: %w", url, err)
			}
			if updated.LogoURL != nil {
				url = *updated.LogoURL
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid company id %q", raw)
	}
	return id, nil
}
