package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/roach88/ordersctl/internal/order"
	"github.com/roach88/ordersctl/internal/widget"
)

// Order writes the detail view of a single order.
func Order(w io.Writer, o *order.Order) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Order ID: %s\n", o.ID)
	fmt.Fprintf(&buf, "Customer: %s\n", o.CustomerName)
	fmt.Fprintf(&buf, "Status:   %s\n", o.Status.Upper())
	if o.CreatedAt != "" {
		fmt.Fprintf(&buf, "Created:  %s\n", o.CreatedAt)
	}
	buf.WriteString("Items:\n")
	writeItems(&buf, o.Items, "  ")
	_, err := w.Write(buf.Bytes())
	return err
}

// List writes the summary line followed by one numbered card per visible
// order. total is the server-reported total, which may differ from
// len(visible) when a filter is active.
func List(w io.Writer, total int, visible []order.Order) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Total Orders: %d\n", total)
	if len(visible) == 0 {
		buf.WriteString("No orders.\n")
	}
	for i, o := range visible {
		buf.WriteString("\n")
		fmt.Fprintf(&buf, "Order #%d  ID: %s\n", i+1, o.ID)
		fmt.Fprintf(&buf, "  Customer: %s\n", o.CustomerName)
		fmt.Fprintf(&buf, "  Status:   %s\n", o.Status.Upper())
		buf.WriteString("  Items:\n")
		writeItems(&buf, o.Items, "    ")
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Draft writes the pending create-order form, numbering rows from 1.
func Draft(w io.Writer, d order.Draft) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Customer: %s\n", d.CustomerName)
	buf.WriteString("Items:\n")
	for i, item := range d.Items {
		name := item.Name
		if name == "" {
			name = "(blank)"
		}
		fmt.Fprintf(&buf, "  %d. %s × %d\n", i+1, name, item.Quantity)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Feedback writes a widget message. An empty feedback writes nothing.
func Feedback(w io.Writer, fb widget.Feedback) error {
	var line string
	switch fb.Kind {
	case widget.FeedbackSuccess:
		line = "ok: " + fb.Message + "\n"
	case widget.FeedbackError:
		line = "error: " + fb.Message + "\n"
	default:
		if fb.Message == "" {
			return nil
		}
		line = fb.Message + "\n"
	}
	_, err := io.WriteString(w, line)
	return err
}

func writeItems(buf *bytes.Buffer, items []order.Item, indent string) {
	if len(items) == 0 {
		buf.WriteString(indent + "(none)\n")
		return
	}
	for _, item := range items {
		buf.WriteString(indent + "- " + item.String() + "\n")
	}
}
