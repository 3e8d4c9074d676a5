package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/gartstein/crm/internal/company/contracts"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListAPI is the part of the facade the list page uses.
type ListAPI interface {
	ListCompanies(ctx context.Context) ([]contracts.CompanyListItem, error)
	DeleteCompany(ctx context.Context, id uuid.UUID) error
}

// ListPage shows every company.
type ListPage struct {
	api    ListAPI
	logger *zap.Logger

	state State
	items []contracts.CompanyListItem
	err   error
}

func NewListPage(api ListAPI, logger *zap.Logger) *ListPage {
	return &ListPage{api: api, logger: logger.Named("list_page"), state: Idle}
}

func (p *ListPage) State() State                       { return p.state }
func (p *ListPage) Items() []contracts.CompanyListItem { return p.items }

// Err is the error of the last failed fetch.
func (p *ListPage) Err() error { return p.err }

// Load fetches the list, replacing whatever was shown before.
func (p *ListPage) Load(ctx context.Context) error {
	p.state = Loading
	p.err = nil

	items, err := p.api.ListCompanies(ctx)
	if err != nil {
		p.state = Error
		p.err = err
		p.items = nil
		p.logger.Warn("failed to load companies", zap.Error(err))
		return err
	}

	p.items = items
	if len(items) == 0 {
		p.state = Empty
	} else {
		p.state = Success
	}
	return nil
}

// OnSaved refreshes the list after a form saved c.
func (p *ListPage) OnSaved(ctx context.Context, c contracts.Company) error {
	p.logger.Debug("company saved, refreshing list", zap.String("company_id", c.ID.String()))
	return p.Load(ctx)
}

// Delete removes the company and refreshes the list.
func (p *ListPage) Delete(ctx context.Context, id uuid.UUID) error {
	if err := p.api.DeleteCompany(ctx, id); err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}
	return p.Load(ctx)
}

// Render writes a table of companies, or the message for the current state.
func (p *ListPage) Render(w io.Writer) error {
	if p.state != Success {
		return renderState(w, p.state)
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tINDUSTRY\tLOCATION\tEMPLOYEES\tLOGO")
	for _, c := range p.items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.Name, text(c.Industry), text(c.Location), number(c.Employees), text(c.LogoURL))
	}
	return tw.Flush()
}
