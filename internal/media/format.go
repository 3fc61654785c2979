package media

import "strings"

// QualityAudio selects an audio-only mp3 rendition.
const QualityAudio = "audio"

// SelectFormat maps a quality hint to a yt-dlp format selector.
//
// "audio" picks the best audio stream, "<N>p" caps the video height at N,
// and an empty hint takes the best available streams. The height is not
// validated; yt-dlp rejects a malformed selector itself.
func SelectFormat(quality string) string {
	switch {
	case quality == QualityAudio:
		return "bestaudio/best"
	case quality != "":
		height := strings.TrimSuffix(quality, "p")
		return "bestvideo[height<=" + height + "]+bestaudio/bestvideo+bestaudio/best"
	default:
		return "bestvideo+bestaudio/best"
	}
}
