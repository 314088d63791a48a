package rpc

import (
	"bytes"
	"encoding/json"

	"connectrpc.com/connect"
)

// jsonCodec lets Connect carry plain Go structs as JSON, replacing the
// protobuf-backed "json" codec.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

// Marshal leaves <, > and & unescaped.
func (jsonCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// Codec returns the option both handlers and clients need.
func Codec() connect.Option { return connect.WithCodec(jsonCodec{}) }

const (
	ProjectServiceName  = "renohub.v1.ProjectService"
	EstimateServiceName = "renohub.v1.EstimateService"
	ImageServiceName    = "renohub.v1.ImageService"
	ChatServiceName     = "renohub.v1.ChatService"
	ScanServiceName     = "renohub.v1.ScanService"

	ProjectServiceListProjectsProcedure  = "/" + ProjectServiceName + "/ListProjects"
	ProjectServiceCreateProjectProcedure = "/" + ProjectServiceName + "/CreateProject"
	ProjectServiceGetProjectProcedure    = "/" + ProjectServiceName + "/GetProject"
	ProjectServiceGetStatsProcedure      = "/" + ProjectServiceName + "/GetStats"

	EstimateServiceGetEstimateProcedure = "/" + EstimateServiceName + "/GetEstimate"
	EstimateServiceSelectQuoteProcedure = "/" + EstimateServiceName + "/SelectQuote"

	ImageServiceGenerateImageProcedure  = "/" + ImageServiceName + "/GenerateImage"
	ImageServiceEditImageProcedure      = "/" + ImageServiceName + "/EditImage"
	ImageServiceListRenderingsProcedure = "/" + ImageServiceName + "/ListRenderings"

	ChatServiceListChannelsProcedure       = "/" + ChatServiceName + "/ListChannels"
	ChatServiceGetHistoryProcedure         = "/" + ChatServiceName + "/GetHistory"
	ChatServiceGetChannelEstimateProcedure = "/" + ChatServiceName + "/GetChannelEstimate"

	ScanServiceStartScanProcedure = "/" + ScanServiceName + "/StartScan"
)
