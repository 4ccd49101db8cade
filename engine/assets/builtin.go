package assets

import (
	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/Carmen-Shannon/oxy-preview/engine/camera"
	"github.com/Carmen-Shannon/oxy-preview/engine/game_object"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/pipeline"
	"github.com/gogpu/gg"
)

// PostPipelineKey is the key of the default camera's post-process pipeline.
const PostPipelineKey = "preview_post"

// newDefaultCameraTemplate builds the preview camera. Its post-process chain resolves the
// color target to opaque, so callers that need coverage must capture it before the stages run.
func newDefaultCameraTemplate() game_object.GameObject {
	post := pipeline.NewPipeline(PostPipelineKey, pipeline.PipelineTypePostProcess,
		pipeline.WithStages(pipeline.OpaqueStage()),
	)
	cam := camera.NewCamera(
		camera.WithFov(30*common.Deg2Rad),
		camera.WithAspect(1),
		camera.WithAutoRender(false),
		camera.WithBackgroundColor(gg.Transparent),
		camera.WithPipeline(post),
	)
	return game_object.NewGameObject(
		game_object.WithName(DefaultCameraName),
		game_object.WithCamera(cam),
		game_object.WithHideFlags(game_object.HideAndDontSave),
	)
}

// newFallbackCameraTemplate builds a bare camera with no post-processing.
func newFallbackCameraTemplate() game_object.GameObject {
	return game_object.NewGameObject(
		game_object.WithName(FallbackCameraName),
		game_object.WithCamera(camera.NewCamera(camera.WithFov(30*common.Deg2Rad), camera.WithAutoRender(false))),
		game_object.WithHideFlags(game_object.HideAndDontSave),
	)
}
