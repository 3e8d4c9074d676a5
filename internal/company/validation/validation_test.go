package validation

import (
	"errors"
	"testing"

	"github.com/gartstein/crm/internal/company/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCreateRequestValidation(t *testing.T) {
	v := New()

	tests := []struct {
		name     string
		req      contracts.CreateCompanyRequest
		wantLocs [][]string
		wantType string
	}{
		{
			name: "valid",
			req:  contracts.CreateCompanyRequest{Name: "Acme", Industry: "Tech", Location: "SF"},
		},
		{
			name:     "missing name",
			req:      contracts.CreateCompanyRequest{Industry: "Tech", Location: "SF"},
			wantLocs: [][]string{{"body", "name"}},
			wantType: "missing",
		},
		{
			name:     "blank name",
			req:      contracts.CreateCompanyRequest{Name: "   ", Industry: "Tech", Location: "SF"},
			wantLocs: [][]string{{"body", "name"}},
			wantType: "string_too_short",
		},
		{
			name: "bad logo url",
			req: contracts.CreateCompanyRequest{
				Name: "Acme", Industry: "Tech", Location: "SF", LogoURL: ptr("not a url"),
			},
			wantLocs: [][]string{{"body", "logoUrl"}},
			wantType: "url_parsing",
		},
		{
			name: "negative employees",
			req: contracts.CreateCompanyRequest{
				Name: "Acme", Industry: "Tech", Location: "SF", Employees: ptr(-1),
			},
			wantLocs: [][]string{{"body", "employees"}},
			wantType: "greater_than",
		},
		{
			name: "zero revenue",
			req: contracts.CreateCompanyRequest{
				Name: "Acme", Industry: "Tech", Location: "SF", Revenue: ptr(int64(0)),
			},
			wantLocs: [][]string{{"body", "revenue"}},
			wantType: "greater_than",
		},
		{
			name:     "blank industry and location",
			req:      contracts.CreateCompanyRequest{Name: "Acme", Industry: "   ", Location: " "},
			wantLocs: [][]string{{"body", "industry"}, {"body", "location"}},
			wantType: "string_too_short",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.req)
			if tt.wantLocs == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)

			details := Details(err, "body")
			require.Len(t, details, len(tt.wantLocs))
			for i, loc := range tt.wantLocs {
				assert.Equal(t, loc, details[i].Loc)
				assert.NotEmpty(t, details[i].Msg)
			}
			assert.Equal(t, tt.wantType, details[0].Type)
		})
	}
}

func TestUpdateRequestValidation(t *testing.T) {
	v := New()

	assert.NoError(t, v.Struct(contracts.UpdateCompanyRequest{}))
	assert.NoError(t, v.Struct(contracts.UpdateCompanyRequest{Employees: ptr(3)}))

	err := v.Struct(contracts.UpdateCompanyRequest{Name: ptr("")})
	require.Error(t, err)
	assert.Equal(t, []string{"body", "name"}, Details(err, "body")[0].Loc)

	err = v.Struct(contracts.UpdateCompanyRequest{Location: ptr("  ")})
	require.Error(t, err)
	assert.Equal(t, []string{"body", "location"}, Details(err, "body")[0].Loc)

	err = v.Struct(contracts.UpdateCompanyRequest{Employees: ptr(0)})
	require.Error(t, err)
	assert.Equal(t, "greater_than", Details(err, "body")[0].Type)
}

func TestPositiveInt(t *testing.T) {
	type input struct {
		Count string `json:"count" validate:"omitempty,posint"`
	}
	v := New()

	assert.NoError(t, v.Struct(input{}))
	assert.NoError(t, v.Struct(input{Count: "12"}))
	for _, bad := range []string{"0", "-3", "1.5", "abc"} {
		err := v.Struct(input{Count: bad})
		require.Error(t, err, bad)
		assert.Equal(t, "int_parsing", Details(err)[0].Type)
	}
}

func TestDetailsForeignError(t *testing.T) {
	details := Details(errors.New("boom"), "body")
	require.Len(t, details, 1)
	assert.Equal(t, []string{"body"}, details[0].Loc)
	assert.Equal(t, "boom", details[0].Msg)
	assert.Equal(t, "value_error", details[0].Type)
}
