package rpc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renohub/internal/ai"
	"renohub/internal/chat"
	"renohub/internal/estimate"
	"renohub/internal/fixtures"
	"renohub/internal/gateway/repository/projectstore"
	"renohub/internal/gateway/repository/rendering"
	"renohub/internal/imagegen"
	"renohub/internal/scan"
)

type counter struct{ created, selected int }

func (c *counter) ProjectCreated() { c.created++ }
func (c *counter) QuoteSelected()  { c.selected++ }

type failingImages struct{}

func (failingImages) Name() string { return "failing" }
func (failingImages) Close() error { return nil }
func (failingImages) GenerateImage(context.Context, ai.ImageRequest) (*ai.InlineImage, error) {
	return nil, context.DeadlineExceeded
}

type env struct {
	url     string
	counter *counter
}

func newEnv(t *testing.T, images ai.ImageModel) env {
	t.Helper()
	log := zerolog.Nop()
	now := func() time.Time { return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC) }
	c := &counter{}

	projects := projectstore.NewMemoryStore(fixtures.Projects(), now)
	book := estimate.NewBook(fixtures.Estimates())
	renders, err := rendering.NewMemoryStore(8)
	require.NoError(t, err)

	mux := http.NewServeMux()
	opts := []connect.HandlerOption{Codec()}
	mux.Handle(NewProjectServiceHandler(NewProjectHandler(projects, c, log), opts...))
	mux.Handle(NewEstimateServiceHandler(NewEstimateHandler(book, projects, c, log), opts...))
	mux.Handle(NewImageServiceHandler(NewImageHandler(imagegen.NewService(images), renders, now, log), opts...))
	mux.Handle(NewChatServiceHandler(NewChatHandler(
		chat.NewDirectory(fixtures.ChannelGroups()), chat.NewTranscript(fixtures.Transcripts()), book), opts...))
	mux.Handle(NewScanServiceHandler(NewScanHandler(scan.Simulator{Step: 25, Interval: time.Millisecond}, projects), opts...))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return env{url: srv.URL, counter: c}
}

func unary[Req, Res any](t *testing.T, e env, procedure string, req *Req) (*Res, error) {
	t.Helper()
	client := connect.NewClient[Req, Res](http.DefaultClient, e.url+procedure, Codec())
	res, err := client.CallUnary(context.Background(), connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

func TestProjectService_ListAndCreate(t *testing.T) {
	e := newEnv(t, ai.NewFakeClient(0))

	list, err := unary[ListProjectsRequest, ListProjectsResponse](t, e, ProjectServiceListProjectsProcedure, &ListProjectsRequest{})
	require.NoError(t, err)
	require.Len(t, list.Projects, 5)
	assert.Equal(t, "2", list.Projects[0].ID)

	created, err := unary[CreateProjectRequest, CreateProjectResponse](t, e, ProjectServiceCreateProjectProcedure,
		&CreateProjectRequest{Name: "渋谷新規邸", ClientName: "山田様"})
	require.NoError(t, err)
	assert.Equal(t, "6", created.Project.ID)
	assert.Equal(t, "#0006", created.Project.DisplayID)
	assert.Equal(t, "2026-10-18", created.Project.Date)
	assert.Equal(t, 20, created.Project.Progress)
	require.Len(t, created.Projects, 6)
	assert.Equal(t, "6", created.Projects[0].ID)
	assert.Equal(t, 1, e.counter.created)

	_, err = unary[CreateProjectRequest, CreateProjectResponse](t, e, ProjectServiceCreateProjectProcedure,
		&CreateProjectRequest{Name: "x"})
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	assert.Equal(t, 1, e.counter.created)

	_, err = unary[GetProjectRequest, GetProjectResponse](t, e, ProjectServiceGetProjectProcedure, &GetProjectRequest{ProjectID: "99"})
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestEstimateService_TotalsAndSelection(t *testing.T) {
	e := newEnv(t, ai.NewFakeClient(0))

	est, err := unary[GetEstimateRequest, EstimateResponse](t, e, EstimateServiceGetEstimateProcedure, &GetEstimateRequest{ProjectID: "1"})
	require.NoError(t, err)
	assert.Equal(t, int64(2750000), est.AITotal)
	assert.Equal(t, int64(2480000), est.SelectedTotal)
	require.NotNil(t, est.DeltaPercent)
	assert.Equal(t, -10, *est.DeltaPercent)
	require.Len(t, est.Items, 4)
	assert.Equal(t, estimate.StateNoQuotes, est.Items[3].State)

	sel, err := unary[SelectQuoteRequest, EstimateResponse](t, e, EstimateServiceSelectQuoteProcedure,
		&SelectQuoteRequest{ProjectID: "1", ItemID: "e1", VendorName: "渋谷電気工事"})
	require.NoError(t, err)
	assert.Equal(t, int64(2520000), sel.SelectedTotal)
	assert.Equal(t, 1, e.counter.selected)

	_, err = unary[SelectQuoteRequest, EstimateResponse](t, e, EstimateServiceSelectQuoteProcedure,
		&SelectQuoteRequest{ProjectID: "2", ItemID: "e6", VendorName: "ネットワンシステムズ"})
	assert.Equal(t, connect.CodeFailedPrecondition, connect.CodeOf(err))

	_, err = unary[GetEstimateRequest, EstimateResponse](t, e, EstimateServiceGetEstimateProcedure, &GetEstimateRequest{ProjectID: "42"})
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestImageService_GenerateStoresRendering(t *testing.T) {
	e := newEnv(t, ai.NewFakeClient(0))

	img, err := unary[GenerateImageRequest, ImageResponse](t, e, ImageServiceGenerateImageProcedure,
		&GenerateImageRequest{ProjectID: "1", Prompt: "明るいリビング", Size: "2k"})
	require.NoError(t, err)
	assert.False(t, img.Empty)
	assert.Equal(t, "image/png", img.MIMEType)
	assert.Contains(t, img.DataURL, "data:image/png;base64,")
	require.NotNil(t, img.Rendering)
	assert.Equal(t, "2K", img.Rendering.Size)

	list, err := unary[ListRenderingsRequest, ListRenderingsResponse](t, e, ImageServiceListRenderingsProcedure, &ListRenderingsRequest{ProjectID: "1"})
	require.NoError(t, err)
	require.Len(t, list.Renderings, 1)
	assert.Equal(t, "/renderings/1/"+img.Rendering.ID, list.Renderings[0].URL)

	_, err = unary[GenerateImageRequest, ImageResponse](t, e, ImageServiceGenerateImageProcedure,
		&GenerateImageRequest{Prompt: " ", Size: "1K"})
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	_, err = unary[EditImageRequest, ImageResponse](t, e, ImageServiceEditImageProcedure,
		&EditImageRequest{SourceDataURL: "nope", Instruction: "白く"})
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

func TestImageService_UpstreamFailure(t *testing.T) {
	e := newEnv(t, failingImages{})
	_, err := unary[GenerateImageRequest, ImageResponse](t, e, ImageServiceGenerateImageProcedure,
		&GenerateImageRequest{Prompt: "x", Size: "1K"})
	assert.Equal(t, connect.CodeDeadlineExceeded, connect.CodeOf(err))
}

func TestChatService(t *testing.T) {
	e := newEnv(t, ai.NewFakeClient(0))

	ch, err := unary[ListChannelsRequest, ListChannelsResponse](t, e, ChatServiceListChannelsProcedure, &ListChannelsRequest{})
	require.NoError(t, err)
	require.Len(t, ch.Groups, 3)
	assert.Equal(t, "c1", ch.Groups[0].Channels[0].ID)

	hist, err := unary[GetHistoryRequest, GetHistoryResponse](t, e, ChatServiceGetHistoryProcedure, &GetHistoryRequest{ChannelID: "c1"})
	require.NoError(t, err)
	assert.NotEmpty(t, hist.Messages)

	_, err = unary[GetHistoryRequest, GetHistoryResponse](t, e, ChatServiceGetHistoryProcedure, &GetHistoryRequest{ChannelID: "zz"})
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	link, err := unary[GetChannelEstimateRequest, GetChannelEstimateResponse](t, e, ChatServiceGetChannelEstimateProcedure,
		&GetChannelEstimateRequest{ChannelID: "c1"})
	require.NoError(t, err)
	require.NotNil(t, link.Item)
	assert.Equal(t, "e1", link.Item.ID)
	assert.Equal(t, estimate.StateQuoteSelected, link.Item.State)
	require.NotNil(t, link.Quote)
	assert.Equal(t, int64(480000), link.Quote.Amount)
}

func TestScanService_StreamsToComplete(t *testing.T) {
	e := newEnv(t, ai.NewFakeClient(0))
	client := connect.NewClient[StartScanRequest, ScanProgress](http.DefaultClient, e.url+ScanServiceStartScanProcedure, Codec())

	stream, err := client.CallServerStream(context.Background(), connect.NewRequest(&StartScanRequest{ProjectID: "1"}))
	require.NoError(t, err)
	defer stream.Close()

	var seen []int
	var done bool
	for stream.Receive() {
		seen = append(seen, stream.Msg().Percent)
		done = stream.Msg().Done
	}
	require.NoError(t, stream.Err())
	assert.Equal(t, []int{0, 25, 50, 75, 100}, seen)
	assert.True(t, done)
}

func TestScanService_UnknownProject(t *testing.T) {
	e := newEnv(t, ai.NewFakeClient(0))
	client := connect.NewClient[StartScanRequest, ScanProgress](http.DefaultClient, e.url+ScanServiceStartScanProcedure, Codec())

	stream, err := client.CallServerStream(context.Background(), connect.NewRequest(&StartScanRequest{ProjectID: "99"}))
	require.NoError(t, err)
	defer stream.Close()
	assert.False(t, stream.Receive())
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(stream.Err()))
}
