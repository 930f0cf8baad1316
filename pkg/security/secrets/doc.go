// Package secrets resolves named secrets from the environment or from files
// mounted into the pod.
//
// In a cluster the Jira and Confluence tokens usually live in a Kubernetes
// Secret. Injecting them as environment variables works, but mounting the
// Secret as a volume keeps them out of the pod manifest and `kubectl describe`.
// The FileProvider reads such a mount; the EnvProvider reads variables; a
// Manager consults them in order:
//
//	fileProvider, err := secrets.NewFileProvider("/var/run/secrets/atlassian")
//	if err != nil {
//	    return err
//	}
//	manager := secrets.NewManager(secrets.NewEnvProvider(""), fileProvider)
//
//	token, err := manager.Lookup(ctx, "JIRA_PERSONAL_TOKEN")
package secrets
