package mediahttp

import "github.com/sir_venger/media_lite/pkg/httperrors"

var (
	videoMessages = httperrors.Messages{
		Missing:     "No video uploaded.",
		NotFound:    "Video not found.",
		Deleted:     "Video file deleted successfully.",
		DeleteError: "An error occurred while trying to delete the video file.",
		Unsatisfied: "Requested range not satisfiable.",
		Internal:    "An error occurred while processing the video.",
	}

	imageMessages = httperrors.Messages{
		Missing:     "No image uploaded.",
		NotFound:    "Image not found.",
		Deleted:     "Image file deleted successfully.",
		DeleteError: "An error occurred while trying to delete the image file.",
		Unsatisfied: "Requested range not satisfiable.",
		Internal:    "An error occurred while processing the image.",
	}
)
