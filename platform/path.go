package platform

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/mung"

	"github.com/ardnew/miltov/lang"
)

// pathPrefix prepends its remaining arguments to the PATH-like list in its
// first argument.
func pathPrefix(_ context.Context, args []lang.Value) (lang.Value, error) {
	list, prefix, err := pathArgs("pathprefix", args)
	if err != nil {
		return lang.Null, err
	}

	return lang.String(mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()), nil
}

// pathPrefixIf is pathPrefix restricted to entries that exist on disk.
func pathPrefixIf(_ context.Context, args []lang.Value) (lang.Value, error) {
	list, prefix, err := pathArgs("pathprefixif", args)
	if err != nil {
		return lang.Null, err
	}

	return lang.String(mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
		mung.WithFilter(exists),
	).String()), nil
}

func pathArgs(name string, args []lang.Value) (string, []string, error) {
	if len(args) == 0 {
		return "", nil, ErrArgs.With(slog.String("usage", name+"(list, items...)"))
	}

	prefix := make([]string, len(args)-1)
	for i, a := range args[1:] {
		prefix[i] = a.String()
	}

	return args[0].String(), prefix, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}
