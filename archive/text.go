package archive

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Felo0o0/PrimeSecure/message"
)

const (
	textHeader    = "=== PrimeSecure messages ==="
	textSeparator = "------------------------------"
)

// ExportText writes a human-readable report. Content is omitted unless includeContent is set.
func ExportText(w io.Writer, msgs []*message.Message, includeContent bool) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, textHeader)
	fmt.Fprintf(bw, "Total messages: %d\n", len(msgs))
	fmt.Fprintf(bw, "Exported at: %s\n\n", time.Now().UTC().Format(time.RFC3339))

	for i, m := range msgs {
		fmt.Fprintf(bw, "Message #%d\n", i+1)
		fmt.Fprintf(bw, "ID: %s\n", m.ID)
		fmt.Fprintf(bw, "From: %s\n", m.Sender)
		fmt.Fprintf(bw, "To: %s\n", m.Recipient)
		fmt.Fprintf(bw, "Prime code: %d\n", m.PrimeCode)
		fmt.Fprintf(bw, "Status: %s\n", strings.ToUpper(m.State()[:1])+m.State()[1:])
		if includeContent {
			fmt.Fprintf(bw, "Content: %s\n", m.Content)
		}
		fmt.Fprintln(bw, textSeparator)
	}
	return bw.Flush()
}
