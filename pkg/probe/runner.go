package probe

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"mercator-hq/egressprobe/pkg/config"
	securityTLS "mercator-hq/egressprobe/pkg/security/tls"
	"mercator-hq/egressprobe/pkg/telemetry/logging"
)

// Resolver performs the DNS step. *net.Resolver satisfies it.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Dialer opens raw TCP connections for every step that touches the network.
// *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// maxBodyRead caps how much of a response body is read for the preview.
const maxBodyRead = 64 << 10

// Runner executes the probe sequence for each configured service and
// writes the report as it goes.
type Runner struct {
	cfg      *config.Config
	resolver Resolver
	dialer   Dialer
	logger   *logging.Logger
	report   *Reporter
	out      io.Writer
	problems []error

	verifiedTLS   *tls.Config
	unverifiedTLS *tls.Config
}

// Option configures a Runner.
type Option func(*Runner)

// WithResolver replaces the resolver used by the DNS step.
func WithResolver(r Resolver) Option {
	return func(rn *Runner) { rn.resolver = r }
}

// WithDialer replaces the dialer used by the TCP, HTTP and TLS steps.
func WithDialer(d Dialer) Option {
	return func(rn *Runner) { rn.dialer = d }
}

// WithLogger sets the structured logger.
func WithLogger(l *logging.Logger) Option {
	return func(rn *Runner) { rn.logger = l }
}

// WithOutput sets where the report is written (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(rn *Runner) { rn.out = w }
}

// WithConfigProblems lists configuration problems that were recovered from.
// They are printed after the environment check and logged as warnings.
func WithConfigProblems(problems []error) Option {
	return func(rn *Runner) { rn.problems = problems }
}

// NewRunner creates a Runner for cfg. It fails only when the configured CA
// bundle cannot be used.
func NewRunner(cfg *config.Config, opts ...Option) (*Runner, error) {
	r := &Runner{
		cfg:      cfg,
		resolver: net.DefaultResolver,
		dialer:   &net.Dialer{},
		out:      os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.Nop()
	}
	r.report = NewReporter(r.out, r.logger.Redactor())

	verified := &securityTLS.ClientConfig{
		Verify:     true,
		MinVersion: cfg.Probe.TLSMinVersion,
		CAFile:     cfg.Probe.CAFile,
	}
	var err error
	if r.verifiedTLS, err = verified.ToTLSConfig(); err != nil {
		return nil, fmt.Errorf("failed to build verified TLS config: %w", err)
	}

	unverified := &securityTLS.ClientConfig{
		Verify:     false,
		MinVersion: cfg.Probe.TLSMinVersion,
	}
	if r.unverifiedTLS, err = unverified.ToTLSConfig(); err != nil {
		return nil, fmt.Errorf("failed to build unverified TLS config: %w", err)
	}

	return r, nil
}

// Reporter returns the report writer, for callers that add their own
// sections around the probe run.
func (r *Runner) Reporter() *Reporter {
	return r.report
}

// Run probes the tracker and then the wiki. A service missing its URL or
// token is skipped with a single line. Probe failures never end the run;
// only a canceled ctx stops it early.
func (r *Runner) Run(ctx context.Context) error {
	r.report.Banner("AKS ACCESS TEST - Jira/Confluence Connectivity")
	r.report.EnvCheck(r.cfg.EnvStatus())
	r.report.Runtime(CurrentRuntime(r.cfg.Probe.TLSMinVersion))
	if len(r.problems) > 0 {
		r.report.ConfigWarnings(r.problems)
		for _, p := range r.problems {
			r.logger.WarnContext(ctx, "configuration problem ignored", "error", p)
		}
	}

	for _, svc := range r.cfg.Services() {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !svc.Enabled() {
			r.report.Skipped(svc.Name)
			r.logger.InfoContext(ctx, "service skipped", "service", svc.Name,
				"has_url", svc.URL != "", "has_token", svc.Token != "")
			continue
		}

		r.diagnose(logging.WithService(ctx, svc.Name), svc)
	}

	r.report.Banner("Tests complete")
	return nil
}

// target is the per-service state shared by the steps of one run.
type target struct {
	svc     config.ServiceConfig
	baseURL string
	host    string
	addrs   []string
}

// step is one entry of the probe sequence. Only a fatal step may end the
// sequence early.
type step struct {
	label string
	fatal bool
	run   func(ctx context.Context, t *target) Result
}

func (r *Runner) steps() []step {
	return []step{
		{label: "Hostname extraction", run: r.hostnameStep},
		{label: "DNS resolution", fatal: true, run: r.dnsStep},
		{label: fmt.Sprintf("TCP connection to port %d", r.cfg.Probe.HTTPPort), run: r.tcpStep(r.cfg.Probe.HTTPPort)},
		{label: fmt.Sprintf("TCP connection to port %d", r.cfg.Probe.HTTPSPort), run: r.tcpStep(r.cfg.Probe.HTTPSPort)},
		{label: "Unauthenticated HTTP request", run: r.plainHTTPStep},
		{label: "HTTPS request WITH SSL verification", run: r.httpsStep(true)},
		{label: "HTTPS request WITHOUT SSL verification", run: r.httpsStep(false)},
		{label: "Authenticated API request", run: r.authStep},
		{label: "SSL/TLS certificate information", run: r.certStep},
	}
}

// diagnose runs the probe sequence for one service and returns the results
// in order. The sequence stops early only after a failed fatal step.
func (r *Runner) diagnose(ctx context.Context, svc config.ServiceConfig) []Result {
	baseURL, defaulted := NormalizeURL(svc.URL)
	r.report.Banner(fmt.Sprintf("Testing %s: %s", svc.Name, svc.URL))
	if defaulted {
		r.logger.WarnContext(ctx, "service URL has no scheme, assuming https", "url", baseURL)
	}

	t := &target{svc: svc, baseURL: baseURL}
	var results []Result

	for i, s := range r.steps() {
		n := i + 1
		stepCtx := logging.WithStep(ctx, n)
		r.report.Step(n, s.label)

		start := time.Now()
		res := s.run(stepCtx, t)
		res.Step = n
		res.Name = s.label
		res.Elapsed = time.Since(start)

		r.report.Result(res)
		if n == 1 && t.host != "" {
			ctx = logging.WithHost(ctx, t.host)
			stepCtx = logging.WithStep(ctx, n)
		}
		r.logger.DebugContext(stepCtx, "probe step finished",
			"label", s.label, "kind", res.Kind.String(), "status", res.Status,
			"elapsed", res.Elapsed, "error", res.Err)
		results = append(results, res)

		if s.fatal && !res.OK() {
			r.logger.WarnContext(stepCtx, "aborting remaining probes", "error", res.Err)
			break
		}
	}

	failed := 0
	for _, res := range results {
		if !res.OK() {
			failed++
		}
	}
	r.logger.InfoContext(ctx, "service probes finished",
		"steps", len(results), "failed", failed)

	return results
}

func (r *Runner) hostnameStep(_ context.Context, t *target) Result {
	t.host = ExtractHostname(t.baseURL)
	if t.host == "" {
		return Result{Kind: KindError, Err: fmt.Errorf("no hostname in %q", t.svc.URL)}
	}
	return Result{Kind: KindSuccess, Summary: "Hostname: " + t.host}
}

func (r *Runner) dnsStep(ctx context.Context, t *target) Result {
	timeout := r.cfg.Probe.DNSTimeout
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	addrs, err := r.resolver.LookupHost(ctx, t.host)
	if err == nil && len(addrs) == 0 {
		err = fmt.Errorf("lookup %s: no addresses returned", t.host)
	}
	if err != nil {
		return Result{
			Kind:    Fold(Classify(err), KindTimeout),
			Err:     err,
			Timeout: timeout,
			Hint:    "DNS failed; remaining probes for this service are skipped",
		}
	}

	t.addrs = addrs
	return Result{
		Kind:    KindSuccess,
		Summary: fmt.Sprintf("%s resolved to %s", t.host, strings.Join(addrs, ", ")),
	}
}

func (r *Runner) tcpStep(port int) func(context.Context, *target) Result {
	return func(ctx context.Context, t *target) Result {
		timeout := r.cfg.Probe.TCPTimeout
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		addr := net.JoinHostPort(t.host, fmt.Sprint(port))
		conn, err := r.dialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			res := Result{
				Kind:    Fold(Classify(err), KindTimeout, KindConnection),
				Err:     err,
				Timeout: timeout,
			}
			switch {
			case isRefused(err):
				res.Hint = fmt.Sprintf("port %d is closed (connection refused)", port)
			case res.Kind == KindTimeout:
				res.Hint = fmt.Sprintf("no answer on port %d; a firewall or network policy may be dropping packets", port)
			}
			return res
		}
		remote := conn.RemoteAddr().String()
		conn.Close()

		return Result{Kind: KindSuccess, Summary: fmt.Sprintf("Port %d is open (%s)", port, remote)}
	}
}

func (r *Runner) plainHTTPStep(ctx context.Context, t *target) Result {
	url := "http://" + urlHost(t.host, r.cfg.Probe.HTTPPort, 80) + r.cfg.Probe.ServerInfoPath
	res := r.get(ctx, url, "", r.unverifiedTLS, previewLimit)
	res.Kind = Fold(res.Kind, KindTimeout, KindConnection)
	return res
}

func (r *Runner) httpsStep(verify bool) func(context.Context, *target) Result {
	return func(ctx context.Context, t *target) Result {
		url := "https://" + urlHost(t.host, r.cfg.Probe.HTTPSPort, 443) + r.cfg.Probe.ServerInfoPath
		if verify {
			res := r.get(ctx, url, "", r.verifiedTLS, previewLimit)
			res.Kind = Fold(res.Kind, KindTLS, KindTimeout)
			return res
		}
		res := r.get(ctx, url, "", r.unverifiedTLS, previewLimit)
		res.Kind = Fold(res.Kind, KindTimeout)
		return res
	}
}

func (r *Runner) authStep(ctx context.Context, t *target) Result {
	url := t.baseURL + r.cfg.Probe.MyselfPath

	// Verification follows the configured scheme: off for http, on otherwise.
	tlsConfig := r.verifiedTLS
	if IsPlainHTTP(t.baseURL) {
		tlsConfig = r.unverifiedTLS
	}

	res := r.get(ctx, url, t.svc.Token, tlsConfig, shortPreviewLimit)
	res.Kind = Fold(res.Kind, KindTimeout)

	switch res.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		res.Hint = fmt.Sprintf("the server rejected the token (HTTP %d); the network path works, check %s's personal access token",
			res.Status, t.svc.Name)
	}
	return res
}

// get issues one GET and turns the outcome into a Result. Any HTTP status
// counts as success; the request reached the server.
func (r *Runner) get(ctx context.Context, url, token string, tlsConfig *tls.Config, limit int) Result {
	timeout := r.cfg.Probe.HTTPTimeout
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{Kind: KindError, Err: err, Timeout: timeout, Limit: limit}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")

	client := r.httpClient(tlsConfig)
	defer client.CloseIdleConnections()

	resp, err := client.Do(req)
	if err != nil {
		res := Result{Kind: Classify(err), Err: err, Timeout: timeout, Limit: limit}
		if res.Kind == KindTimeout {
			res.Hint = "the request timed out rather than being refused; an intermediary (proxy, firewall, egress gateway) may be silently dropping it"
		}
		return res
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyRead))
	if err != nil {
		res := Result{Kind: Classify(err), Err: fmt.Errorf("reading response body: %w", err),
			Status: resp.StatusCode, Timeout: timeout, Limit: limit}
		return res
	}

	return Result{
		Kind:    KindSuccess,
		Summary: fmt.Sprintf("SUCCESS - Status: %d", resp.StatusCode),
		Details: []string{"Response preview: " + truncate(string(body), limit)},
		Status:  resp.StatusCode,
		Timeout: timeout,
		Limit:   limit,
	}
}

func (r *Runner) httpClient(tlsConfig *tls.Config) *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         r.dialer.DialContext,
		TLSClientConfig:     tlsConfig.Clone(),
		TLSHandshakeTimeout: r.cfg.Probe.TLSTimeout,
		ForceAttemptHTTP2:   true,
		DisableKeepAlives:   true,
	}
	return &http.Client{Transport: transport}
}

func (r *Runner) certStep(ctx context.Context, t *target) Result {
	timeout := r.cfg.Probe.TLSTimeout
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	addr := net.JoinHostPort(t.host, fmt.Sprint(r.cfg.Probe.HTTPSPort))
	insp, err := securityTLS.Inspect(ctx, r.dialer, addr, t.host)
	if err != nil {
		return Result{
			Kind:    Fold(Classify(err), KindTimeout),
			Err:     err,
			Timeout: timeout,
			Limit:   shortPreviewLimit,
			Hint:    "could not retrieve SSL info",
		}
	}

	res := Result{
		Kind:    KindSuccess,
		Summary: "SSL Version: " + insp.VersionName(),
		Details: []string{"Cipher: " + insp.CipherSuiteName()},
	}

	leaf := insp.Leaf()
	if leaf == nil {
		res.Details = append(res.Details, "No certificate presented")
		return res
	}

	info := securityTLS.ExtractCertificateInfo(leaf, time.Now())
	res.Details = append(res.Details,
		"Certificate Subject: "+securityTLS.FormatNameFields(info.SubjectFields),
		"Certificate Issuer: "+securityTLS.FormatNameFields(info.IssuerFields),
		fmt.Sprintf("Valid: %s to %s (%d days remaining)",
			info.NotBefore.Format(time.RFC3339), info.NotAfter.Format(time.RFC3339), info.DaysRemaining),
	)
	if len(info.DNSNames) > 0 || len(info.IPAddresses) > 0 {
		res.Details = append(res.Details, "SANs: "+strings.Join(append(append([]string{}, info.DNSNames...), info.IPAddresses...), ", "))
	}
	if err := securityTLS.ValidateX509Certificate(leaf, time.Now()); err != nil {
		res.Details = append(res.Details, "Warning: "+err.Error())
	} else if _, warning := securityTLS.CheckCertificateExpiration(leaf, time.Now()); warning != "" {
		res.Details = append(res.Details, "Warning: "+warning)
	}
	if err := securityTLS.VerifyChain(insp.PeerCertificates, t.host, r.verifiedTLS.RootCAs); err != nil {
		res.Details = append(res.Details, "Verification: would fail: "+truncate(err.Error(), shortPreviewLimit))
	} else {
		res.Details = append(res.Details, "Verification: trusted")
	}

	return res
}
