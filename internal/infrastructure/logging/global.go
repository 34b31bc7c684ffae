package logging

import "context"

func Debug(ctx context.Context, message string, fields Fields) {
	Global().Base.Debug(ctx, message, fields)
}

func Info(ctx context.Context, message string, fields Fields) {
	Global().Base.Info(ctx, message, fields)
}

func Warn(ctx context.Context, message string, fields Fields) {
	Global().Base.Warn(ctx, message, fields)
}

func Error(ctx context.Context, message string, fields Fields) {
	Global().Base.Error(ctx, message, fields)
}

func WarnWithError(ctx context.Context, message string, err error, fields Fields) {
	Global().Base.WarnWithError(ctx, message, err, fields)
}

func ErrorWithError(ctx context.Context, message string, err error, fields Fields) {
	Global().Base.ErrorWithError(ctx, message, err, fields)
}

func HTTP() HTTPLogger         { return Global().HTTP }
func Provider() ProviderLogger { return Global().Provider }
func Store() StoreLogger       { return Global().Store }
func Rates() RatesLogger       { return Global().Rates }
