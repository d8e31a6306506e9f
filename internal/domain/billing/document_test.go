package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbooks/backend/internal/domain/shared"
)

var fixedClock = shared.FixedClock{Instant: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)}

func line(t *testing.T, label, quantity, priceUnit string, analyticID *uuid.UUID) DocumentLine {
	t.Helper()
	l, err := NewDocumentLine(nil, label, decimal.RequireFromString(quantity), decimal.RequireFromString(priceUnit), analyticID)
	require.NoError(t, err)
	return *l
}

func draftInvoice(t *testing.T, lines ...DocumentLine) *Document {
	t.Helper()
	if len(lines) == 0 {
		lines = []DocumentLine{line(t, "Consulting", "10", "150.00", nil)}
	}
	doc, err := NewDocument("INV/2024/0001", DocumentKindCustomerInvoice, uuid.New(),
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), nil, lines)
	require.NoError(t, err)
	return doc
}

func postedInvoice(t *testing.T, lines ...DocumentLine) *Document {
	t.Helper()
	doc := draftInvoice(t, lines...)
	require.NoError(t, doc.MarkPosted(uuid.New(), fixedClock))
	return doc
}

func TestNewDocumentLine(t *testing.T) {
	t.Run("subtotal derived", func(t *testing.T) {
		l, err := NewDocumentLine(nil, "Consulting", decimal.NewFromInt(3), decimal.RequireFromString("99.99"), nil)
		require.NoError(t, err)
		assert.True(t, l.Subtotal.Equal(decimal.RequireFromString("299.97")))
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		_, err := NewDocumentLine(nil, "Consulting", decimal.Zero, decimal.NewFromInt(100), nil)
		assert.Error(t, err)
	})

	t.Run("negative price rejected", func(t *testing.T) {
		_, err := NewDocumentLine(nil, "Consulting", decimal.NewFromInt(1), decimal.NewFromInt(-1), nil)
		assert.Error(t, err)
	})

	t.Run("zero price allowed", func(t *testing.T) {
		l, err := NewDocumentLine(nil, "Free sample", decimal.NewFromInt(1), decimal.Zero, nil)
		require.NoError(t, err)
		assert.True(t, l.Subtotal.IsZero())
	})

	t.Run("empty label rejected", func(t *testing.T) {
		_, err := NewDocumentLine(nil, "", decimal.NewFromInt(1), decimal.NewFromInt(100), nil)
		assert.Error(t, err)
	})
}

func TestNewDocument(t *testing.T) {
	partnerID := uuid.New()
	docDate := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("totals from lines", func(t *testing.T) {
		doc, err := NewDocument("INV/2024/0001", DocumentKindCustomerInvoice, partnerID, docDate, nil,
			[]DocumentLine{
				line(t, "Consulting", "10", "150.00", nil),
				line(t, "Travel", "1", "320.50", nil),
			})
		require.NoError(t, err)
		assert.True(t, doc.TotalAmount.Equal(decimal.RequireFromString("1820.50")))
		assert.True(t, doc.AmountDue.Equal(doc.TotalAmount))
		assert.Equal(t, DocumentStatusDraft, doc.Status)
		assert.Equal(t, PaymentStateNotPaid, doc.PaymentState)
		for _, l := range doc.Lines {
			assert.Equal(t, doc.ID, l.DocumentID)
		}
	})

	t.Run("invalid kind rejected", func(t *testing.T) {
		_, err := NewDocument("X/2024/0001", DocumentKind("CREDIT_NOTE"), partnerID, docDate, nil,
			[]DocumentLine{line(t, "Consulting", "1", "100", nil)})
		assert.Error(t, err)
	})

	t.Run("no lines rejected", func(t *testing.T) {
		_, err := NewDocument("INV/2024/0001", DocumentKindCustomerInvoice, partnerID, docDate, nil, nil)
		assert.Error(t, err)
	})

	t.Run("due date before document date rejected", func(t *testing.T) {
		due := docDate.AddDate(0, 0, -1)
		_, err := NewDocument("INV/2024/0001", DocumentKindCustomerInvoice, partnerID, docDate, &due,
			[]DocumentLine{line(t, "Consulting", "1", "100", nil)})
		assert.Error(t, err)
	})
}

func TestDocumentKindPrefix(t *testing.T) {
	assert.Equal(t, "INV", DocumentKindCustomerInvoice.NumberPrefix())
	assert.Equal(t, "BILL", DocumentKindVendorBill.NumberPrefix())
}

func TestDocumentReplaceLines(t *testing.T) {
	t.Run("recomputes totals", func(t *testing.T) {
		doc := draftInvoice(t)
		err := doc.ReplaceLines([]DocumentLine{line(t, "Consulting", "5", "200.00", nil)})
		require.NoError(t, err)
		assert.True(t, doc.TotalAmount.Equal(decimal.NewFromInt(1000)))
		assert.True(t, doc.AmountDue.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("posted document rejected", func(t *testing.T) {
		doc := postedInvoice(t)
		err := doc.ReplaceLines([]DocumentLine{line(t, "Consulting", "5", "200.00", nil)})
		assert.Error(t, err)
	})

	t.Run("empty lines rejected", func(t *testing.T) {
		doc := draftInvoice(t)
		assert.Error(t, doc.ReplaceLines(nil))
	})
}

func TestDocumentUpdateHeader(t *testing.T) {
	t.Run("draft header edit", func(t *testing.T) {
		doc := draftInvoice(t)
		newPartner := uuid.New()
		newDate := doc.DocumentDate.AddDate(0, 0, 5)
		due := newDate.AddDate(0, 1, 0)

		require.NoError(t, doc.UpdateHeader(newPartner, newDate, &due))
		assert.Equal(t, newPartner, doc.PartnerID)
		assert.Equal(t, newDate, doc.DocumentDate)
	})

	t.Run("posted header edit rejected", func(t *testing.T) {
		doc := postedInvoice(t)
		assert.Error(t, doc.UpdateHeader(uuid.New(), doc.DocumentDate, nil))
	})
}

func TestDocumentMarkPosted(t *testing.T) {
	t.Run("post draft", func(t *testing.T) {
		doc := draftInvoice(t)
		journalID := uuid.New()

		require.NoError(t, doc.MarkPosted(journalID, fixedClock))
		assert.Equal(t, DocumentStatusPosted, doc.Status)
		require.NotNil(t, doc.JournalEntryID)
		assert.Equal(t, journalID, *doc.JournalEntryID)
		assert.Len(t, doc.GetDomainEvents(), 1)
	})

	t.Run("post twice returns already posted", func(t *testing.T) {
		doc := postedInvoice(t)
		err := doc.MarkPosted(uuid.New(), fixedClock)
		assert.ErrorIs(t, err, shared.ErrAlreadyPosted)
	})

	t.Run("missing journal entry rejected", func(t *testing.T) {
		doc := draftInvoice(t)
		assert.Error(t, doc.MarkPosted(uuid.Nil, fixedClock))
	})
}

func TestDocumentApplyAllocation(t *testing.T) {
	t.Run("partial then paid", func(t *testing.T) {
		doc := postedInvoice(t) // total 1500
		require.NoError(t, doc.ApplyAllocation(decimal.NewFromInt(600)))
		assert.Equal(t, PaymentStatePartial, doc.PaymentState)
		assert.True(t, doc.AmountDue.Equal(decimal.NewFromInt(900)))

		require.NoError(t, doc.ApplyAllocation(decimal.NewFromInt(900)))
		assert.Equal(t, PaymentStatePaid, doc.PaymentState)
		assert.True(t, doc.AmountDue.IsZero())
	})

	t.Run("full settlement in one allocation", func(t *testing.T) {
		doc := postedInvoice(t)
		require.NoError(t, doc.ApplyAllocation(doc.TotalAmount))
		assert.Equal(t, PaymentStatePaid, doc.PaymentState)
	})

	t.Run("allocation on draft rejected", func(t *testing.T) {
		doc := draftInvoice(t)
		assert.Error(t, doc.ApplyAllocation(decimal.NewFromInt(100)))
	})

	t.Run("allocation on paid document rejected", func(t *testing.T) {
		doc := postedInvoice(t)
		require.NoError(t, doc.ApplyAllocation(doc.TotalAmount))
		err := doc.ApplyAllocation(decimal.NewFromInt(1))
		assert.ErrorIs(t, err, shared.ErrAlreadyPaid)
	})

	t.Run("over-allocation rejected", func(t *testing.T) {
		doc := postedInvoice(t)
		err := doc.ApplyAllocation(doc.TotalAmount.Add(decimal.NewFromInt(1)))
		assert.Error(t, err)
		assert.Equal(t, PaymentStateNotPaid, doc.PaymentState)
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		doc := postedInvoice(t)
		assert.Error(t, doc.ApplyAllocation(decimal.Zero))
		assert.Error(t, doc.ApplyAllocation(decimal.NewFromInt(-10)))
	})
}

func TestDocumentAnalyticLines(t *testing.T) {
	analyticID := uuid.New()
	doc := draftInvoice(t,
		line(t, "Tagged", "1", "100", &analyticID),
		line(t, "Untagged", "1", "50", nil),
	)

	tagged := doc.AnalyticLines()
	require.Len(t, tagged, 1)
	assert.Equal(t, analyticID, *tagged[0].AnalyticAccountID)
}

func TestPayment(t *testing.T) {
	partnerID := uuid.New()
	date := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)

	t.Run("valid payment", func(t *testing.T) {
		p, err := NewPayment(partnerID, decimal.NewFromInt(500), date, "WIRE-42", PaymentTypeInbound)
		require.NoError(t, err)
		assert.Equal(t, PaymentStatusConfirmed, p.Status)
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		_, err := NewPayment(partnerID, decimal.Zero, date, "", PaymentTypeInbound)
		assert.Error(t, err)
	})

	t.Run("direction follows document kind", func(t *testing.T) {
		assert.Equal(t, PaymentTypeInbound, PaymentTypeForKind(DocumentKindCustomerInvoice))
		assert.Equal(t, PaymentTypeOutbound, PaymentTypeForKind(DocumentKindVendorBill))
	})

	t.Run("allocations bounded by payment amount", func(t *testing.T) {
		p, _ := NewPayment(partnerID, decimal.NewFromInt(500), date, "", PaymentTypeInbound)

		_, err := p.Allocate(uuid.New(), decimal.NewFromInt(300))
		require.NoError(t, err)
		_, err = p.Allocate(uuid.New(), decimal.NewFromInt(200))
		require.NoError(t, err)
		_, err = p.Allocate(uuid.New(), decimal.NewFromInt(1))
		assert.Error(t, err)
		assert.Len(t, p.Allocations, 2)
	})
}
