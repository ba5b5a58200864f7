package get

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	getter "github.com/hashicorp/go-getter"
	"github.com/sirupsen/logrus"
)

// GetBytes fetches a single file out of a remote source described as
// $repo//$path, like github.com/provis-run/recipes//pg/pgx.yaml. The
// surrounding directory is cached so repeated runs share downloads.
func GetBytes(goGetterSrc string) ([]byte, error) {
	cacheBaseDir := ".provis"

	pwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	getterSrcParts := strings.Split(goGetterSrc, "//")
	if len(getterSrcParts) != 2 {
		return nil, fmt.Errorf("format the src description with $repo//$path, like github.com/provis-run/recipes//pg/pgx.yaml: %s", goGetterSrc)
	}

	lastIndex := len(getterSrcParts) - 1

	fileAndQuery := strings.SplitN(getterSrcParts[lastIndex], "?", 2)
	file := fileAndQuery[0]
	var fileQuery string
	if len(fileAndQuery) > 1 {
		fileQuery = fileAndQuery[1]
	}

	dirAndQuery := strings.Split(strings.Join(getterSrcParts[:lastIndex], "/"), "?")
	srcDir := dirAndQuery[0]
	var dirQuery string
	if len(dirAndQuery) > 1 {
		dirQuery = dirAndQuery[1]
	}

	query := strings.Join([]string{fileQuery, dirQuery}, "&")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var cacheKey string
	replacer := strings.NewReplacer("/", "_", ".", "_")
	dirKey := replacer.Replace(srcDir)
	if len(query) > 0 {
		paramsKey := strings.Replace(query, "&", "_", -1)
		cacheKey = fmt.Sprintf("%s.%s", dirKey, paramsKey)
	} else {
		cacheKey = dirKey
	}

	cached := false

	dst := filepath.Join(cacheBaseDir, cacheKey)
	{
		stat, err := os.Stat(dst)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat: %v", err)
		} else if err == nil {
			if !stat.IsDir() {
				return nil, fmt.Errorf("%s is not a directory. please remove it so that provis can use it for recipe caching", dst)
			}

			cached = true
		}
	}

	if !cached {
		logrus.Debugf("downloading %s to %s", srcDir, dst)

		var src string

		if len(query) == 0 {
			src = srcDir
		} else {
			src = strings.Join([]string{srcDir, query}, "?")
		}

		get := &getter.Client{
			Ctx:     ctx,
			Src:     src,
			Dst:     dst,
			Pwd:     pwd,
			Mode:    getter.ClientModeDir,
			Options: []getter.ClientOption{},
		}

		if err := get.Get(); err != nil {
			return nil, fmt.Errorf("get: %v", err)
		}
	}

	bytes, err := ioutil.ReadFile(filepath.Join(dst, file))
	if err != nil {
		return nil, fmt.Errorf("read file: %v", err)
	}

	return bytes, nil
}
