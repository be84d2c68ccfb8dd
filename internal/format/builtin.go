package format

func init() {
	MustRegister(Format{
		Key:         "srt",
		Description: "SubRip subtitles",
		Extensions:  []string{".srt"},
		ContentType: "application/x-subrip",
	})
	MustRegister(Format{
		Key:         "vtt",
		Description: "WebVTT text tracks",
		Extensions:  []string{".vtt"},
		ContentType: "text/vtt; charset=utf-8",
	})
	MustRegister(Format{
		Key:         "ass",
		Description: "Advanced SubStation Alpha",
		Extensions:  []string{".ass", ".ssa"},
		ContentType: "text/x-ssa",
	})
	MustRegister(Format{
		Key:         "ttml",
		Description: "Timed Text Markup Language",
		Extensions:  []string{".ttml", ".dfxp"},
		ContentType: "application/ttml+xml",
	})
	MustRegister(Format{
		Key:         "sbv",
		Description: "YouTube SubViewer captions",
		Extensions:  []string{".sbv"},
		ContentType: "text/plain; charset=utf-8",
	})
	MustRegister(Format{
		Key:         "lrc",
		Description: "Synchronized lyrics",
		Extensions:  []string{".lrc"},
		ContentType: "text/plain; charset=utf-8",
	})
}
