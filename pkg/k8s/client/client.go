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

package client

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
)

// Interface aliases kubernetes.Interface so callers and tests can stand in
// fake.NewSimpleClientset() where a real clientset would go.
type Interface = kubernetes.Interface

type sharedState struct {
	once   sync.Once
	client *kubernetes.Clientset
	config *rest.Config
	err    error
}

var shared sharedState

// GetKubeClient returns the process-wide Kubernetes client, building it on
// first use. A command that reads scenarios from one ConfigMap and publishes
// results to another reuses the same connection pool instead of dialing the
// API server per operation.
//
// Configuration is discovered from KUBECONFIG, then ~/.kube/config, then the
// in-cluster service account. GetKubeClientWithConfig pins an explicit path.
func GetKubeClient() (Interface, *rest.Config, error) {
	shared.once.Do(func() {
		shared.client, shared.config, shared.err = BuildKubeClient("")
	})
	return shared.client, shared.config, shared.err
}

// discoverKubeconfig resolves the kubeconfig path when none was given:
// KUBECONFIG wins, then the default ~/.kube/config if it exists. An empty
// result means the caller should fall back to in-cluster configuration.
func discoverKubeconfig() string {
	if path := os.Getenv("KUBECONFIG"); path != "" {
		return path
	}
	path := filepath.Join(homedir.HomeDir(), ".kube", "config")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return ""
	}
	return path
}

// BuildKubeClient creates a fresh client for the given kubeconfig path,
// bypassing the shared instance. An empty path triggers the same discovery
// order GetKubeClient uses. Reach for this only when one process must talk
// to several clusters, or a test needs isolated configuration.
func BuildKubeClient(kubeconfig string) (*kubernetes.Clientset, *rest.Config, error) {
	if kubeconfig == "" {
		kubeconfig = discoverKubeconfig()
	}

	var (
		config *rest.Config
		err    error
	)
	if kubeconfig == "" {
		// No kubeconfig anywhere, so this process is presumably a pod with a
		// mounted service account.
		config, err = rest.InClusterConfig()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get in-cluster config: %w", err)
		}
	} else {
		config, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to build kube config from %s: %w", kubeconfig, err)
		}
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}
	return clientset, config, nil
}

// GetKubeClientWithConfig builds a client for an explicit kubeconfig path and
// returns it as Interface. The CLI's --kubeconfig flag feeds through here.
func GetKubeClientWithConfig(kubeconfig string) (Interface, *rest.Config, error) {
	return BuildKubeClient(kubeconfig)
}
