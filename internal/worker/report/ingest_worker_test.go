package report_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/errors"
	"github.com/Vishrutha-23/SafeWalk/internal/worker/report"
)

type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	args := m.Called(ctx, stream, group, messageID)
	return args.Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

type MockReportIngester struct {
	mock.Mock
}

func (m *MockReportIngester) Ingest(ctx context.Context, event domain.IncidentReportEvent) (*domain.UserReport, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserReport), args.Error(1)
}

type fixture struct {
	stream   *MockStreamRepository
	reports  *MockReportIngester
	messages chan domain.StreamMessage
	acked    chan string
	worker   *report.IngestWorker
}

func newFixture(t *testing.T, maxRetries int) *fixture {
	t.Helper()

	f := &fixture{
		stream:   &MockStreamRepository{},
		reports:  &MockReportIngester{},
		messages: make(chan domain.StreamMessage),
		acked:    make(chan string, 10),
	}

	f.stream.On("CreateConsumerGroup", mock.Anything, domain.StreamIncidentReport, "test-group").Return(nil)
	f.stream.On("ConsumeStream", mock.Anything, domain.StreamIncidentReport, "test-group", mock.Anything).
		Return((<-chan domain.StreamMessage)(f.messages), nil)
	f.stream.On("AckMessage", mock.Anything, domain.StreamIncidentReport, "test-group", mock.Anything).
		Run(func(args mock.Arguments) { f.acked <- args.String(3) }).
		Return(nil)

	f.worker = report.NewIngestWorker(f.stream, f.reports, "test-group", maxRetries, zap.NewNop()).
		WithRetryBackoff(time.Millisecond)
	return f
}

// run starts the worker and returns a func that stops it and yields Start's error.
func (f *fixture) run(t *testing.T) func() error {
	t.Helper()

	errCh := make(chan error, 1)
	go func() { errCh <- f.worker.Start(context.Background()) }()

	return func() error {
		require.NoError(t, f.worker.Stop())
		select {
		case err := <-errCh:
			return err
		case <-time.After(2 * time.Second):
			t.Fatal("worker did not stop")
			return nil
		}
	}
}

func (f *fixture) expectAck(t *testing.T, id string) {
	t.Helper()
	select {
	case got := <-f.acked:
		assert.Equal(t, id, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("message %s was not acked", id)
	}
}

func eventWithID(id string) interface{} {
	return mock.MatchedBy(func(e domain.IncidentReportEvent) bool { return e.ID == id })
}

func TestIngestWorker_Name(t *testing.T) {
	w := report.NewIngestWorker(&MockStreamRepository{}, &MockReportIngester{}, "g", 3, zap.NewNop())
	assert.Equal(t, report.WorkerName, w.Name())

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
	assert.True(t, w.IsStopped())
}

func TestIngestWorker_StoresAndAcks(t *testing.T) {
	f := newFixture(t, 3)
	f.reports.On("Ingest", mock.Anything, eventWithID("evt-1")).
		Return(&domain.UserReport{ID: "evt-1"}, nil).Once()

	stop := f.run(t)
	f.messages <- domain.StreamMessage{
		ID:   "1-0",
		Data: `{"id":"evt-1","category":"harassment","description":"followed near gate","latitude":12.97,"longitude":77.59}`,
	}
	f.expectAck(t, "1-0")

	assert.NoError(t, stop())
	f.reports.AssertExpectations(t)

	event := f.reports.Calls[0].Arguments.Get(1).(domain.IncidentReportEvent)
	assert.Equal(t, "harassment", event.Category)
	require.NotNil(t, event.Latitude)
	assert.Equal(t, 12.97, *event.Latitude)
}

func TestIngestWorker_MalformedMessageIsAcked(t *testing.T) {
	f := newFixture(t, 3)

	stop := f.run(t)
	f.messages <- domain.StreamMessage{ID: "2-0", Data: "{not json"}
	f.expectAck(t, "2-0")

	assert.NoError(t, stop())
	f.reports.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything)
}

func TestIngestWorker_RejectedReportIsAckedWithoutRetry(t *testing.T) {
	f := newFixture(t, 3)
	f.reports.On("Ingest", mock.Anything, eventWithID("bad")).
		Return(nil, errors.ErrInvalidInput).Once()

	stop := f.run(t)
	f.messages <- domain.StreamMessage{ID: "3-0", Data: `{"id":"bad","category":"","latitude":1,"longitude":1}`}
	f.expectAck(t, "3-0")

	assert.NoError(t, stop())
	f.reports.AssertNumberOfCalls(t, "Ingest", 1)
}

func TestIngestWorker_StorageFailureRetriesThenLeavesPending(t *testing.T) {
	f := newFixture(t, 3)
	f.reports.On("Ingest", mock.Anything, eventWithID("flaky")).
		Return(nil, stderrors.New("connection refused"))
	f.reports.On("Ingest", mock.Anything, eventWithID("next")).
		Return(&domain.UserReport{ID: "next"}, nil)

	stop := f.run(t)
	f.messages <- domain.StreamMessage{ID: "4-0", Data: `{"id":"flaky","category":"theft","latitude":1,"longitude":1}`}
	f.messages <- domain.StreamMessage{ID: "5-0", Data: `{"id":"next","category":"theft","latitude":1,"longitude":1}`}

	// only the second message is acked
	f.expectAck(t, "5-0")
	assert.NoError(t, stop())

	flakyCalls := 0
	for _, call := range f.reports.Calls {
		if call.Arguments.Get(1).(domain.IncidentReportEvent).ID == "flaky" {
			flakyCalls++
		}
	}
	assert.Equal(t, 3, flakyCalls)
	assert.Empty(t, f.acked)
}

func TestIngestWorker_RecoversAfterTransientFailure(t *testing.T) {
	f := newFixture(t, 3)
	f.reports.On("Ingest", mock.Anything, eventWithID("r1")).
		Return(nil, errors.ErrDatabaseError).Once()
	f.reports.On("Ingest", mock.Anything, eventWithID("r1")).
		Return(&domain.UserReport{ID: "r1"}, nil).Once()

	stop := f.run(t)
	f.messages <- domain.StreamMessage{ID: "6-0", Data: `{"id":"r1","category":"theft","latitude":1,"longitude":1}`}
	f.expectAck(t, "6-0")

	assert.NoError(t, stop())
	f.reports.AssertExpectations(t)
}

func TestIngestWorker_ConsumerGroupFailure(t *testing.T) {
	stream := &MockStreamRepository{}
	stream.On("CreateConsumerGroup", mock.Anything, domain.StreamIncidentReport, "g").
		Return(stderrors.New("NOAUTH"))

	w := report.NewIngestWorker(stream, &MockReportIngester{}, "g", 3, zap.NewNop())
	err := w.Start(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "consumer group")
	stream.AssertNotCalled(t, "ConsumeStream", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestIngestWorker_ContextCancellation(t *testing.T) {
	f := newFixture(t, 3)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- f.worker.Start(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker ignored context cancellation")
	}
}
