package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/gartstein/crm/internal/brain"
	"github.com/gartstein/crm/internal/company/contracts"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DetailAPI is the part of the facade the detail page uses.
type DetailAPI interface {
	GetCompany(ctx context.Context, id uuid.UUID) (contracts.Company, error)
}

// DetailPage shows one company.
type DetailPage struct {
	api    DetailAPI
	id     uuid.UUID
	logger *zap.Logger

	state   State
	company contracts.Company
	err     error
}

func NewDetailPage(api DetailAPI, id uuid.UUID, logger *zap.Logger) *DetailPage {
	return &DetailPage{api: api, id: id, logger: logger.Named("detail_page"), state: Idle}
}

func (p *DetailPage) State() State                { return p.state }
func (p *DetailPage) Company() contracts.Company { return p.company }
func (p *DetailPage) Err() error                 { return p.err }

// Load fetches the company. A 404 leaves the page in NotFound and returns nil;
// any other failure leaves it in Error and is returned.
func (p *DetailPage) Load(ctx context.Context) error {
	p.state = Loading
	p.err = nil

	company, err := p.api.GetCompany(ctx, p.id)
	switch {
	case brain.IsNotFound(err):
		p.state = NotFound
		p.company = contracts.Company{}
		return nil
	case err != nil:
		p.state = Error
		p.err = err
		p.logger.Warn("failed to load company", zap.String("company_id", p.id.String()), zap.Error(err))
		return err
	}

	p.company = company
	p.state = Success
	return nil
}

// OnSaved shows c and re-fetches to pick up server-side changes.
func (p *DetailPage) OnSaved(ctx context.Context, c contracts.Company) error {
	if c.ID != uuid.Nil && c.ID != p.id {
		return fmt.Errorf("saved company %s is not %s", c.ID, p.id)
	}
	return p.Load(ctx)
}

// Render writes the company as label/value lines, or the state message.
func (p *DetailPage) Render(w io.Writer) error {
	if p.state != Success {
		return renderState(w, p.state)
	}

	c := p.company
	tw := newTable(w)
	fmt.Fprintf(tw, "ID\t%s\n", c.ID)
	fmt.Fprintf(tw, "Name\t%s\n", c.Name)
	fmt.Fprintf(tw, "Industry\t%s\n", text(c.Industry))
	fmt.Fprintf(tw, "Location\t%s\n", text(c.Location))
	fmt.Fprintf(tw, "Logo\t%s\n", text(c.LogoURL))
	fmt.Fprintf(tw, "Revenue\t%s\n", number(c.Revenue))
	fmt.Fprintf(tw, "Employees\t%s\n", number(c.Employees))
	fmt.Fprintf(tw, "Created\t%s\n", timestamp(c.CreatedAt))
	fmt.Fprintf(tw, "Updated\t%s\n", timestamp(c.UpdatedAt))
	return tw.Flush()
}
