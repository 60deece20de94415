package uploadclient

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePoster struct {
	status int
	body   []byte
	err    error

	calls        int
	gotEndpoint  string
	gotFieldName string
	gotFilename  string
	gotData      []byte
}

func (p *fakePoster) Post(_ context.Context, endpoint, contentType string, body io.Reader) (int, []byte, error) {
	p.calls++
	p.gotEndpoint = endpoint

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err == nil && mediaType == "multipart/form-data" {
		reader := multipart.NewReader(body, params["boundary"])
		if part, err := reader.NextPart(); err == nil {
			p.gotFieldName = part.FormName()
			p.gotFilename = part.FileName()
			p.gotData, _ = io.ReadAll(part)
		}
	}

	if p.err != nil {
		return 0, nil, p.err
	}
	return p.status, p.body, nil
}

type fakeStorage struct {
	values map[string]string
	sets   int
}

func (s *fakeStorage) Set(key, value string) {
	if s.values == nil {
		s.values = map[string]string{}
	}
	s.values[key] = value
	s.sets++
}

type fakeNavigator struct {
	paths []string
}

func (n *fakeNavigator) Navigate(path string) {
	n.paths = append(n.paths, path)
}

type fakeNotifier struct {
	messages []string
}

func (n *fakeNotifier) Notify(message string) {
	n.messages = append(n.messages, message)
}

type fixture struct {
	client    *Client
	poster    *fakePoster
	storage   *fakeStorage
	navigator *fakeNavigator
	notifier  *fakeNotifier
}

func newFixture(poster *fakePoster) *fixture {
	f := &fixture{
		poster:    poster,
		storage:   &fakeStorage{},
		navigator: &fakeNavigator{},
		notifier:  &fakeNotifier{},
	}
	f.client = New(f.poster, f.storage, f.navigator, f.notifier)
	return f
}

func TestSubmitWithoutFile(t *testing.T) {
	f := newFixture(&fakePoster{})

	err := f.client.Submit(context.Background(), nil)

	require.ErrorIs(t, err, ErrNoFileSelected)
	assert.Equal(t, []string{"Error: Please select a CSV file!"}, f.notifier.messages)
	assert.Zero(t, f.poster.calls, "no request should be made")
	assert.Zero(t, f.storage.sets)
	assert.Empty(t, f.navigator.paths)
}

func TestSubmitSuccessStoresAndNavigates(t *testing.T) {
	f := newFixture(&fakePoster{
		status: 200,
		body:   []byte(`{"rows": 10}`),
	})

	err := f.client.Submit(context.Background(), &File{
		Name: "data.csv",
		Data: []byte("a,b\n1,2\n"),
	})

	require.NoError(t, err)
	assert.Equal(t, `{"rows":10}`, f.storage.values[StorageKey])
	assert.Equal(t, []string{ResultPath}, f.navigator.paths)
	assert.Empty(t, f.notifier.messages)

	assert.Equal(t, DefaultEndpoint, f.poster.gotEndpoint)
	assert.Equal(t, "file", f.poster.gotFieldName)
	assert.Equal(t, "data.csv", f.poster.gotFilename)
	assert.Equal(t, []byte("a,b\n1,2\n"), f.poster.gotData)
}

func TestSubmitRejectionShowsServerMessage(t *testing.T) {
	f := newFixture(&fakePoster{
		status: 400,
		body:   []byte(`{"error": "bad format"}`),
	})

	err := f.client.Submit(context.Background(), &File{Name: "data.csv", Data: []byte("x")})

	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, 400, serverErr.Status)
	assert.Equal(t, "bad format", serverErr.Message)

	assert.Equal(t, []string{"Error: bad format"}, f.notifier.messages)
	assert.Zero(t, f.storage.sets, "rejections must not touch storage")
	assert.Empty(t, f.navigator.paths)
}

func TestSubmitRejectionWithoutMessage(t *testing.T) {
	tests := []struct {
		name string
		body []byte
	}{
		{name: "empty body", body: nil},
		{name: "empty object", body: []byte(`{}`)},
		{name: "blank error field", body: []byte(`{"error": "  "}`)},
		{name: "not json", body: []byte(`<html>oops</html>`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(&fakePoster{status: 400, body: tt.body})

			err := f.client.Submit(context.Background(), &File{Name: "data.csv", Data: []byte("x")})

			require.Error(t, err)
			assert.Equal(t, []string{"Error: Unknown error"}, f.notifier.messages)
			assert.Zero(t, f.storage.sets)
			assert.Empty(t, f.navigator.paths)
		})
	}
}

func TestSubmitTransportFailure(t *testing.T) {
	cause := errors.New("network down")
	f := newFixture(&fakePoster{err: cause})

	err := f.client.Submit(context.Background(), &File{Name: "data.csv", Data: []byte("x")})

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, []string{"Error: network down"}, f.notifier.messages)
	assert.Zero(t, f.storage.sets, "transport failures must not touch storage")
	assert.Empty(t, f.navigator.paths)
}

func TestSubmitIsRepeatable(t *testing.T) {
	f := newFixture(&fakePoster{
		status: 200,
		body:   []byte(`{"rows": 10}`),
	})
	file := &File{Name: "data.csv", Data: []byte("a,b\n1,2\n")}

	require.NoError(t, f.client.Submit(context.Background(), file))
	require.NoError(t, f.client.Submit(context.Background(), file))

	assert.Equal(t, 2, f.poster.calls)
	assert.Equal(t, `{"rows":10}`, f.storage.values[StorageKey])
	assert.Equal(t, []string{ResultPath, ResultPath}, f.navigator.paths)
	assert.Equal(t, []byte("a,b\n1,2\n"), f.poster.gotData, "file data is re-sent intact")
}

func TestSubmitCustomEndpoint(t *testing.T) {
	poster := &fakePoster{status: 201, body: []byte(`{"ok":true}`)}
	storage := &fakeStorage{}
	client := New(poster, storage, &fakeNavigator{}, &fakeNotifier{}, WithEndpoint("/v2/upload"))

	err := client.Submit(context.Background(), &File{Name: "data.csv", Data: []byte("x")})

	require.NoError(t, err)
	assert.Equal(t, "/v2/upload", poster.gotEndpoint)
	assert.Equal(t, `{"ok":true}`, storage.values[StorageKey])
}

func TestSubmitNonJSONSuccessBodyIsParseFailure(t *testing.T) {
	f := newFixture(&fakePoster{status: 200, body: []byte("plain text")})

	err := f.client.Submit(context.Background(), &File{Name: "data.csv", Data: []byte("x")})

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)

	require.Len(t, f.notifier.messages, 1)
	assert.True(t, strings.HasPrefix(f.notifier.messages[0], "Error: "))
	assert.Zero(t, f.storage.sets, "parse failures must not touch storage")
	assert.Empty(t, f.navigator.paths)
}
