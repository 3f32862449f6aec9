// Copyright (c) 2025, The Kubescenarios Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package client builds and caches the Kubernetes client used by the
// ConfigMap-backed catalog readers and writers in pkg/serializer.
//
// One client serves the whole process. GetKubeClient initializes it on first
// use behind sync.Once and every later caller gets the same instance, so a
// run that reads a catalog ConfigMap, lints it, and publishes the result
// shares a single connection pool with the API server:
//
//	clientset, _, err := client.GetKubeClient()
//	if err != nil {
//	    return fmt.Errorf("failed to get kubernetes client: %w", err)
//	}
//	cms := clientset.CoreV1().ConfigMaps("scenarios")
//
// # Configuration discovery
//
// With no explicit path the client resolves its configuration in order:
//
//   - the KUBECONFIG environment variable
//   - ~/.kube/config, when the file exists
//   - the in-cluster service account, for processes running as pods
//
// The CLI's --kubeconfig flag bypasses discovery through
// GetKubeClientWithConfig, and BuildKubeClient constructs an independent
// client outside the shared instance for multi-cluster work:
//
//	clientset, config, err := client.BuildKubeClient("/path/to/kubeconfig")
//
// # Testing
//
// Interface aliases kubernetes.Interface, so helpers written against this
// package's type accept the fakes from k8s.io/client-go/kubernetes/fake:
//
//	var kube client.Interface = fake.NewSimpleClientset()
//	cm, err := kube.CoreV1().ConfigMaps("scenarios").Get(ctx, "catalog", metav1.GetOptions{})
//
// No test needs a live cluster to cover ConfigMap round-trips.
package client
