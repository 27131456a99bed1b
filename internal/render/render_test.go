package render

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ordersctl/internal/order"
	"github.com/roach88/ordersctl/internal/widget"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func sampleOrders() []order.Order {
	return []order.Order{
		{
			ID:           "a1",
			CustomerName: "Anna Lee",
			Status:       order.StatusReady,
			Items: []order.Item{
				{Name: "Cheeseburger", Quantity: 2},
				{Name: "Fries", Quantity: 1},
			},
		},
		{
			ID:           "b2",
			CustomerName: "Bob Stone",
			Status:       order.StatusCancelled,
			Items:        []order.Item{{Name: "Coke", Quantity: 1}},
		},
	}
}

func TestOrder_Golden(t *testing.T) {
	o := sampleOrders()[0]
	o.CreatedAt = "2024-05-01T12:00:00Z"

	var buf bytes.Buffer
	require.NoError(t, Order(&buf, &o))
	newGoldie(t).Assert(t, "order_detail", buf.Bytes())
}

func TestList_Golden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, List(&buf, 5, sampleOrders()))
	newGoldie(t).Assert(t, "order_list", buf.Bytes())
}

func TestList_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, List(&buf, 0, nil))
	assert.Equal(t, "Total Orders: 0\nNo orders.\n", buf.String())
}

func TestDraft_Golden(t *testing.T) {
	d := order.NewDraft()
	d.CustomerName = "Anna Lee"
	d.Items[0] = order.Item{Name: "Salad", Quantity: 1}
	d.AddItem()

	var buf bytes.Buffer
	require.NoError(t, Draft(&buf, d))
	newGoldie(t).Assert(t, "draft", buf.Bytes())
}

func TestFeedback(t *testing.T) {
	tests := []struct {
		name string
		fb   widget.Feedback
		want string
	}{
		{"none", widget.Feedback{}, ""},
		{"success", widget.Feedback{Kind: widget.FeedbackSuccess, Message: "Seeded 3 fake orders."}, "ok: Seeded 3 fake orders.\n"},
		{"error", widget.Feedback{Kind: widget.FeedbackError, Message: "Unauthorized."}, "error: Unauthorized.\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Feedback(&buf, tt.fb))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestOrder_WriteError(t *testing.T) {
	o := sampleOrders()[1]
	assert.Error(t, Order(failingWriter{}, &o))
}
