package live

// clientScript connects to /ws, swaps #app for every pushed commit, and
// sends button clicks as actions instead of posting the forms.
const clientScript = `<script>
(function() {
    'use strict';

    var app = document.getElementById('app');
    var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
    var ws = new WebSocket(protocol + '//' + location.host + '/ws');

    ws.onmessage = function(e) {
        app.innerHTML = e.data;
    };

    document.addEventListener('submit', function(e) {
        if (ws.readyState !== WebSocket.OPEN) {
            return;
        }
        e.preventDefault();
        ws.send(e.target.getAttribute('action').slice(1));
    });
})();
</script>`
