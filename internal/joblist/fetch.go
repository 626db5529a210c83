// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package joblist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter/v2"
	"github.com/matt-FFFFFF/gpubatch/internal/ctxlog"
)

const (
	getterPathSeparator = "//"
	getterRefSeparator  = "?"
	minGetterParts      = 3 // scheme, host and path
)

var (
	// ErrFetchJobList is returned when a job list cannot be retrieved from its source.
	ErrFetchJobList = errors.New("failed to fetch job list")
	// ErrInvalidSource is returned when the job list source is empty.
	ErrInvalidSource = errors.New("invalid job list source")
)

// Fetch retrieves the job list at src and groups it.
// Local paths are read through FsFactory, anything else is downloaded with go-getter
// (e.g. git::https://example.com/repo//jobs.txt?ref=main or https://example.com/jobs.txt).
func Fetch(ctx context.Context, src string) (Groups, error) {
	if src == "" {
		return nil, errors.Join(ErrFetchJobList, ErrInvalidSource)
	}

	if !isRemote(src) {
		ctxlog.Debug(ctx, "reading local job list", "path", src)
		return ParseFile(src)
	}

	pwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Join(ErrFetchJobList, err)
	}

	req := &getter.Request{
		Src: src,
		Pwd: pwd,
	}

	b, err := download(ctx, req)
	if err != nil {
		return nil, err
	}

	return ParseBytes(b)
}

// download retrieves a remote job list into a temporary directory and reads it.
// Sources naming a file inside a subdirectory (repo//path/jobs.txt) are fetched as a
// directory and the file read from there, see https://github.com/hashicorp/go-getter/issues/98.
// Anything else is fetched as a single file.
func download(ctx context.Context, req *getter.Request) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "gpu-batch-getter-*")
	if err != nil {
		return nil, errors.Join(ErrFetchJobList, err)
	}

	defer os.RemoveAll(tmpDir) //nolint:errcheck

	target := filepath.Join(tmpDir, "joblist")
	req.Dst = target
	req.GetMode = getter.ModeFile

	if src, fileName := splitGetterSource(req.Src); src != "" {
		req.Src = src
		req.Dst = filepath.Join(tmpDir, "g")
		req.GetMode = getter.ModeDir
		target = filepath.Join(req.Dst, fileName)
	}

	client := getter.Client{
		DisableSymlinks: true,
	}

	ctxlog.Debug(ctx, "downloading job list", "src", req.Src, "mode", req.GetMode)

	if _, err := client.Get(ctx, req); err != nil {
		return nil, errors.Join(ErrFetchJobList, err)
	}

	b, err := os.ReadFile(target)
	if err != nil {
		return nil, errors.Join(ErrFetchJobList, err)
	}

	return b, nil
}

// isRemote reports whether src names a URL or a forced getter rather than a local path.
func isRemote(src string) bool {
	return strings.Contains(src, "::") || strings.Contains(src, "://")
}

// splitGetterSource splits a go-getter source into the location to download and the file name within it.
// A ref query parameter is kept on the location.
func splitGetterSource(src string) (string, string) {
	var ref string

	parts := strings.Split(src, getterPathSeparator)
	if len(parts) < minGetterParts {
		return "", ""
	}

	last := parts[len(parts)-1]
	if before, after, ok := strings.Cut(last, getterRefSeparator); ok {
		ref = after
		last = before
	}

	if filepath.Clean(last) == filepath.Dir(last) {
		return "", ""
	}

	fileName := filepath.Base(last)

	dir := filepath.Dir(last)
	if dir == "." {
		parts = parts[:len(parts)-1]
	} else {
		parts[len(parts)-1] = dir
	}

	loc := strings.Join(parts, getterPathSeparator)
	if ref != "" {
		loc += getterRefSeparator + ref
	}

	return loc, fileName
}
