package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

func runDiscover(apiURL, meetingID, keywords string, out io.Writer) error {
	q := url.Values{}
	q.Set("meetingId", meetingID)
	if keywords != "" {
		q.Set("keywords", keywords)
	}
	resp, err := http.Get(apiURL + "/api/discovery?" + q.Encode())
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}
	_, err = io.Copy(out, resp.Body)
	return err
}

func runBrief(apiURL, meetingID string, items []string, out io.Writer) error {
	refs := make([]map[string]string, 0, len(items))
	for _, item := range items {
		kind, id, ok := strings.Cut(item, ":")
		if !ok {
			return fmt.Errorf("item %q must be kind:id", item)
		}
		refs = append(refs, map[string]string{"id": id, "sourceKind": kind})
	}
	payload := map[string]interface{}{
		"meetingId": meetingID,
		"items":     refs,
	}
	body, _ := json.Marshal(payload)
	resp, err := http.Post(apiURL+"/api/prep", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}
	_, err = io.Copy(out, resp.Body)
	return err
}

func runCacheClear(apiURL string, out io.Writer) error {
	req, err := http.NewRequest(http.MethodDelete, apiURL+"/api/cache/discovery", nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}
	_, err = io.Copy(out, resp.Body)
	return err
}
