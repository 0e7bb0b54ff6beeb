package notifytest

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/yigit/eventsphere/internal/pkg/notify"
)

func TestRecorder_ThroughDispatcher(t *testing.T) {
	rec := &Recorder{}
	d := notify.NewDispatcher(rec, zerolog.Nop())

	d.Notify(context.Background(), notify.Notification{Kind: notify.EventSubmitted, Recipient: "a@klu.ac.in"})
	d.Notify(context.Background(), notify.Notification{Kind: notify.EventApproved, Recipient: "a@klu.ac.in"})

	assert.Equal(t, []notify.Kind{notify.EventSubmitted, notify.EventApproved}, rec.Kinds())
	assert.Len(t, rec.Sent(), 2)
	assert.NoError(t, rec.Close())
}
