// Command stock_load races many buyers for the same product against a
// running gateway and reports how many checkouts went through. With stock N
// exactly N checkouts must succeed.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

var (
	gatewayURL = flag.String("url", "http://localhost:8080", "gateway base URL")
	productID  = flag.Uint("product", 1, "product to buy")
	totalUsers = flag.Int("users", 50, "number of concurrent buyers")
	runID      = flag.String("run", fmt.Sprint(time.Now().Unix()), "suffix for generated buyer emails")
)

var (
	successCount int
	soldOutCount int
	failCount    int
	mu           sync.Mutex
	client       = &http.Client{Timeout: 5 * time.Second}
)

type envelope struct {
	Code  int             `json:"code"`
	Msg   string          `json:"msg"`
	Error string          `json:"error"`
	Data  json.RawMessage `json:"data"`
}

func call(req *http.Request) (envelope, error) {
	var env envelope
	resp, err := client.Do(req)
	if err != nil {
		return env, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return env, err
	}
	err = json.Unmarshal(body, &env)
	return env, err
}

func postJSON(path, token string, body interface{}) (envelope, error) {
	data, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, *gatewayURL+path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return call(req)
}

// buyerToken registers a fresh buyer and logs in.
func buyerToken(n int) (string, error) {
	email := fmt.Sprintf("load-%s-%d@example.com", *runID, n)
	if env, err := postJSON("/users", "", map[string]string{"email": email, "password": "load-test-pw"}); err != nil {
		return "", err
	} else if env.Error != "" {
		return "", fmt.Errorf("register: %s", env.Msg)
	}

	form := url.Values{"username": {email}, "password": {"load-test-pw"}}
	req, _ := http.NewRequest(http.MethodPost, *gatewayURL+"/users/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	env, err := call(req)
	if err != nil {
		return "", err
	}
	var pair struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(env.Data, &pair); err != nil || pair.AccessToken == "" {
		return "", fmt.Errorf("login: %s", env.Msg)
	}
	return pair.AccessToken, nil
}

func buy(n int, token string, start <-chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()
	<-start

	env, err := postJSON("/cart/items", token, map[string]interface{}{"product_id": *productID, "quantity": 1})
	if err == nil && env.Error == "" {
		env, err = postJSON("/orders/checkout", token, nil)
	}

	mu.Lock()
	defer mu.Unlock()
	switch {
	case err != nil:
		fmt.Printf("[buyer %d] request failed: %v\n", n, err)
		failCount++
	case env.Error == "InsufficientStock":
		soldOutCount++
	case env.Error != "":
		fmt.Printf("[buyer %d] %s: %s\n", n, env.Error, env.Msg)
		failCount++
	default:
		successCount++
	}
}

func main() {
	flag.Parse()
	fmt.Printf("checkout race: product %d, %d buyers\n", *productID, *totalUsers)

	tokens := make([]string, 0, *totalUsers)
	for i := 0; i < *totalUsers; i++ {
		token, err := buyerToken(i)
		if err != nil {
			fmt.Printf("setup failed for buyer %d: %v\n", i, err)
			return
		}
		tokens = append(tokens, token)
	}

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i, token := range tokens {
		wg.Add(1)
		go buy(i, token, start, &wg)
	}

	startTime := time.Now()
	close(start)
	wg.Wait()

	fmt.Printf("finished in %v\n", time.Since(startTime))
	fmt.Printf("checked out: %d\n", successCount)
	fmt.Printf("sold out:    %d\n", soldOutCount)
	fmt.Printf("errors:      %d\n", failCount)
}
