package sdapi

type Model struct {
	Title     string `json:"title"`
	ModelName string `json:"model_name"`
	Hash      string `json:"hash,omitempty"`
	Filename  string `json:"filename"`
}

type VAE struct {
	ModelName string `json:"model_name"`
	Filename  string `json:"filename"`
}

// Options is the subset of /sdapi/v1/options this bot reads.
type Options struct {
	SDModelCheckpoint string `json:"sd_model_checkpoint"`
	SDVae             string `json:"sd_vae"`
}

// OptionsUpdate carries exactly one of the fields to change.
type OptionsUpdate struct {
	SDModelCheckpoint string `json:"sd_model_checkpoint,omitempty"`
	SDVae             string `json:"sd_vae,omitempty"`
}

type EmbeddingInfo struct {
	Step             *int64  `json:"step"`
	SDCheckpoint     *string `json:"sd_checkpoint"`
	SDCheckpointName *string `json:"sd_checkpoint_name"`
	Shape            int64   `json:"shape"`
	Vectors          int64   `json:"vectors"`
}

type EmbeddingsResponse struct {
	Loaded  map[string]EmbeddingInfo `json:"loaded"`
	Skipped map[string]EmbeddingInfo `json:"skipped"`
}
