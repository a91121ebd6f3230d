// Package eks establishes cluster access for kubectl and helm.
//
// Access optionally confirms through the EKS API that the cluster exists and is
// ACTIVE, then runs `aws eks update-kubeconfig` and, when the kubeconfig is
// written to an explicit path, checks that the file loads with a current
// context.
package eks
