package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traceability/internal/trace/codec"
	"traceability/internal/trace/payload"
	"traceability/internal/trace/service"
	actorstore "traceability/internal/trace/store/actor"
	eventstore "traceability/internal/trace/store/event"
	publisherstore "traceability/internal/trace/store/publisher"
	subjectstore "traceability/internal/trace/store/subject"
	id "traceability/pkg/domain"
)

type handlerFixture struct {
	server *httptest.Server

	publisherID id.PublisherID
	actorID     id.ActorID
	subjectID   id.SubjectID
}

func newHandlerFixture(t *testing.T, emitted int) *handlerFixture {
	t.Helper()
	ctx := context.Background()

	events := eventstore.NewInMemory()
	reg := service.NewRegistry(
		publisherstore.NewInMemory(),
		subjectstore.NewInMemory(),
		actorstore.NewInMemory(),
	)
	c := codec.JSON{}
	emitter := service.NewEmitter(events, reg, c)

	subject, err := reg.NewSubject(ctx, "WIDGET_SUBJECT")
	require.NoError(t, err)
	require.NoError(t, reg.SaveSubjects(ctx, subject))
	actor, err := reg.GetOrCreateActor(ctx, "user-7")
	require.NoError(t, err)
	publisher := reg.NewPublisher(ctx, "widget")
	require.NoError(t, reg.SavePublishers(ctx, publisher))

	for range emitted {
		_, err := emitter.Emit(ctx, service.EmitRequest{
			PublisherIDs: []id.PublisherID{publisher.ID},
			ActorIDs:     []id.ActorID{actor.ID},
			SubjectID:    subject.ID,
			Name:         "WIDGET_ADD",
			Payload:      payload.Fields(map[string]any{"id": 42}),
		})
		require.NoError(t, err)
	}

	r := chi.NewRouter()
	New(service.NewQuery(events, c), nil).Register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &handlerFixture{
		server:      srv,
		publisherID: publisher.ID,
		actorID:     actor.ID,
		subjectID:   subject.ID,
	}
}

type eventsResponse struct {
	Events []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"events"`
}

func getEvents(t *testing.T, url string) (*http.Response, eventsResponse) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body eventsResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	}
	return resp, body
}

func TestHandler_ListsEventsForEachTargetKind(t *testing.T) {
	f := newHandlerFixture(t, 2)

	for name, path := range map[string]string{
		"publisher": "/trace/publishers/" + f.publisherID.String() + "/events",
		"actor":     "/trace/actors/" + f.actorID.String() + "/events",
		"subject":   "/trace/subjects/" + f.subjectID.String() + "/events",
	} {
		t.Run(name, func(t *testing.T) {
			resp, body := getEvents(t, f.server.URL+path)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			require.Len(t, body.Events, 2)
			assert.Equal(t, "WIDGET_ADD", body.Events[0].Name)
		})
	}
}

func TestHandler_EmptyTrailIsAnEmptyList(t *testing.T) {
	f := newHandlerFixture(t, 0)

	resp, body := getEvents(t, f.server.URL+"/trace/publishers/"+f.publisherID.String()+"/events")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, body.Events)
	assert.Empty(t, body.Events)
}

func TestHandler_RejectsMalformedIDs(t *testing.T) {
	f := newHandlerFixture(t, 0)

	for name, path := range map[string]string{
		"not a uuid": "/trace/publishers/not-a-uuid/events",
		"nil uuid":   "/trace/actors/00000000-0000-0000-0000-000000000000/events",
	} {
		t.Run(name, func(t *testing.T) {
			resp, _ := getEvents(t, f.server.URL+path)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}
