package media

type (
	Metadata struct {
		Name        string
		ContentType string
		SizeBytes   uint64
	}

	// FileRef is either a LocalFile (bytes in hand) or a RemoteFile (only a URL).
	// Callers that need content switch on the concrete type.
	FileRef interface {
		Meta() Metadata
		isFileRef()
	}

	LocalFile struct {
		Metadata
		Content []byte
	}
	RemoteFile struct {
		Metadata
		URL string
	}
)

func NewLocalFile(name, contentType string, content []byte) LocalFile {
	return LocalFile{
		Metadata: Metadata{
			Name:        name,
			ContentType: contentType,
			SizeBytes:   uint64(len(content)),
		},
		Content: content,
	}
}

func (f LocalFile) Meta() Metadata  { return f.Metadata }
func (f RemoteFile) Meta() Metadata { return f.Metadata }

func (LocalFile) isFileRef()  {}
func (RemoteFile) isFileRef() {}
