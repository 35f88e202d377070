package httpsafe

import "github.com/kart-io/notifyguard/notifyerr"

func newConfigErr(msg string) error {
	return notifyerr.New(notifyerr.CategoryConfiguration, notifyerr.CodeInvalidURL, msg)
}

func newResolutionErr(msg string) error {
	return notifyerr.New(notifyerr.CategoryResolution, notifyerr.CodeIPNotPublic, msg)
}

func wrapTransportErr(cause error, code notifyerr.Code, msg string) error {
	return notifyerr.Wrap(cause, notifyerr.CategoryTransport, code, msg)
}
