package intake

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Pipeline runs one selection through load, decode and classification.
type Pipeline struct {
	loader        Loader
	decoder       Decoder
	log           *zap.Logger
	loadTimeout   time.Duration
	decodeTimeout time.Duration
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger. The default discards output.
func WithLogger(log *zap.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.log = log
		}
	}
}

// WithLoadTimeout bounds the content loader. Zero disables the deadline.
func WithLoadTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.loadTimeout = d }
}

// WithDecodeTimeout bounds the image decoder. Zero disables the deadline.
func WithDecodeTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.decodeTimeout = d }
}

// NewPipeline wires a loader and decoder into a pipeline.
func NewPipeline(loader Loader, decoder Decoder, opts ...Option) *Pipeline {
	p := &Pipeline{
		loader:  loader,
		decoder: decoder,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run classifies h into exactly one Status. It never returns nil and never
// panics on loader or decoder failure.
//
//	nil handle            -> NotSelected
//	load fails            -> FileError
//	decode fails          -> NotImage
//	decode succeeds       -> Selected
func (p *Pipeline) Run(ctx context.Context, h FileHandle) Status {
	return p.run(ctx, h, p.log)
}

func (p *Pipeline) run(ctx context.Context, h FileHandle, log *zap.Logger) Status {
	if h == nil {
		log.Debug("no file selected")
		return NotSelected{}
	}

	log = log.With(zap.String("file", h.Name()))
	log.Debug("loading content")

	content, err := await(ctx, p.loadTimeout, func(ctx context.Context) (RawContent, error) {
		return p.loader.Load(ctx, h)
	})
	if err != nil {
		err = asReadFailure(h.Name(), err)
		log.Info("file could not be read", zap.Error(err))
		return FileError{Err: err}
	}

	log.Debug("decoding content",
		zap.String("media_type", content.MediaType()),
		zap.Int("bytes", content.Len()))

	size, err := await(ctx, p.decodeTimeout, func(ctx context.Context) (ImageSize, error) {
		return p.decoder.Decode(ctx, content)
	})
	if err == nil && !size.Valid() {
		err = fmt.Errorf("invalid image size %s", size)
	}
	if err != nil {
		err = asDecodeFailure(content.MediaType(), err)
		log.Info("content is not an image", zap.Error(err))
		return NotImage{Err: err}
	}

	log.Info("image selected",
		zap.Int("width", size.Width),
		zap.Int("height", size.Height))
	return Selected{Size: size, Content: content}
}

type outcome[T any] struct {
	val T
	err error
}

// await runs fn on its own goroutine and waits for exactly one resolution:
// fn's result, ctx cancellation, or the optional timeout. A stage that
// ignores its context is abandoned rather than waited on. Panics in fn are
// returned as errors.
func await[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	done := make(chan outcome[T], 1)
	go func() {
		var o outcome[T]
		defer func() {
			if r := recover(); r != nil {
				o.err = fmt.Errorf("stage panic: %v", r)
			}
			done <- o
		}()
		o.val, o.err = fn(ctx)
	}()

	select {
	case o := <-done:
		return o.val, o.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func asReadFailure(name string, err error) error {
	var rf *ReadFailure
	if errors.As(err, &rf) {
		return err
	}
	return &ReadFailure{Name: name, Err: err}
}

func asDecodeFailure(mediaType string, err error) error {
	var df *DecodeFailure
	if errors.As(err, &df) {
		return err
	}
	return &DecodeFailure{MediaType: mediaType, Err: err}
}
